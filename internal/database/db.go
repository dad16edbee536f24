package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/streed/litewrite/internal/config"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/migrations"
)

type DB struct {
	conn *sql.DB
	path string
}

// dsn opens write transactions with BEGIN IMMEDIATE so a bulk replace takes
// the write lock up front instead of failing on upgrade.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL", path)
}

func New(cfg *config.Config) (*DB, error) {
	return Open(cfg.GetDatabasePath())
}

// Open creates (if needed) and migrates the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	logger.Debug("Database path: %s", path)

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.initialize(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

func (db *DB) initialize() error {
	if err := db.conn.Ping(); err != nil {
		return err
	}
	return migrations.NewRunner(db.conn).Run()
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Path() string {
	return db.path
}
