package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streed/litewrite/internal/constants"
	"github.com/streed/litewrite/internal/database"
	"github.com/streed/litewrite/internal/models"
)

type SQLiteBackend struct {
	db *database.DB
}

func NewSQLiteBackend(db *database.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// OpenSQLite opens and migrates the database file at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteBackend(db), nil
}

func (b *SQLiteBackend) GetAll(ctx context.Context) ([]models.Note, error) {
	rows, err := b.db.Conn().QueryContext(ctx,
		"SELECT id, content, created_at FROM notes ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (b *SQLiteBackend) Get(ctx context.Context, id string) (models.Note, bool, error) {
	var n models.Note
	err := b.db.Conn().QueryRowContext(ctx,
		"SELECT id, content, created_at FROM notes WHERE id = ?", id).
		Scan(&n.ID, &n.Content, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, false, nil
	}
	if err != nil {
		return models.Note{}, false, err
	}
	return n, true, nil
}

const upsertNote = `INSERT INTO notes (id, content, created_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET content = excluded.content, created_at = excluded.created_at`

func (b *SQLiteBackend) Put(ctx context.Context, note models.Note) error {
	_, err := b.db.Conn().ExecContext(ctx, upsertNote, note.ID, note.Content, note.CreatedAt)
	return err
}

func (b *SQLiteBackend) Delete(ctx context.Context, id string) error {
	_, err := b.db.Conn().ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	return err
}

func (b *SQLiteBackend) ReplaceNotes(ctx context.Context, notes []models.Note) (err error) {
	tx, err := b.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// LIKE would treat the underscores in the prefix as wildcards.
	prefix := constants.PreferencePrefix
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM notes WHERE substr(id, 1, ?) <> ?", len(prefix), prefix); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO notes (id, content, created_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		if _, err = stmt.ExecContext(ctx, n.ID, n.Content, n.CreatedAt); err != nil {
			return fmt.Errorf("insert note %s: %w", n.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
