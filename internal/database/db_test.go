package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/streed/litewrite/internal/config"
)

func setupTestDB(t *testing.T) (*DB, string) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	return db, dbPath
}

func TestOpen(t *testing.T) {
	db, dbPath := setupTestDB(t)
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var version string
	if err := db.conn.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		t.Errorf("Failed to query SQLite version: %v", err)
	}
	if version == "" {
		t.Error("SQLite version should not be empty")
	}
	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}
}

func TestDatabaseInitialization(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	var tableExists int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='notes'",
	).Scan(&tableExists)
	if err != nil {
		t.Fatalf("Failed to check for notes table: %v", err)
	}
	if tableExists != 1 {
		t.Error("Notes table should exist")
	}
}

func TestClose(t *testing.T) {
	db, _ := setupTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}

	var version string
	if err := db.conn.QueryRow("SELECT sqlite_version()").Scan(&version); err == nil {
		t.Error("Expected error when querying closed database")
	}
}

func TestNewUsesConfigPath(t *testing.T) {
	tempDir := t.TempDir()
	cfg := &config.Config{DataDirectory: tempDir}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create database with empty config: %v", err)
	}
	defer db.Close()

	expectedPath := filepath.Join(tempDir, "litewrite.db")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Error("Database file should be created at default location")
	}
}

func TestDatabaseCreatesDirectories(t *testing.T) {
	deepPath := filepath.Join(t.TempDir(), "level1", "level2", "level3")
	dbPath := filepath.Join(deepPath, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database in nested directory: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should be created")
	}
}
