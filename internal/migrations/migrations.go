package migrations

import (
	"database/sql"
	"fmt"
)

// allMigrations returns every schema migration. Add new ones at the end.
func allMigrations() []Migration {
	return []Migration{
		{
			ID:          "000_initial_schema",
			Description: "Create the notes container keyed by opaque string ids",
			Up:          migration000Up,
			Down:        migration000Down,
		},
		{
			ID:          "001_notes_created_at_index",
			Description: "Index notes by creation time for ordered listings",
			Up:          migration001Up,
			Down:        migration001Down,
		},
	}
}

// Preferences live in the same table under reserved ids, so a single
// container backs both notes and settings.
func migration000Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}
	return nil
}

func migration000Down(tx *sql.Tx) error {
	if _, err := tx.Exec("DROP TABLE IF EXISTS notes"); err != nil {
		return fmt.Errorf("failed to drop notes table: %w", err)
	}
	return nil
}

func migration001Up(tx *sql.Tx) error {
	if _, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at)"); err != nil {
		return fmt.Errorf("failed to create notes created_at index: %w", err)
	}
	return nil
}

func migration001Down(tx *sql.Tx) error {
	if _, err := tx.Exec("DROP INDEX IF EXISTS idx_notes_created_at"); err != nil {
		return fmt.Errorf("failed to drop notes created_at index: %w", err)
	}
	return nil
}
