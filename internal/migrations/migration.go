package migrations

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/streed/litewrite/internal/logger"
)

// Migration is a single schema step applied inside its own transaction.
type Migration struct {
	ID          string                 // Sortable identifier, e.g. "000_initial_schema"
	Description string                 // Human-readable description
	Up          func(tx *sql.Tx) error // Apply
	Down        func(tx *sql.Tx) error // Revert (optional)
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Applied     bool   `json:"applied"`
}

// Runner applies the litewrite schema migrations to a SQLite database.
type Runner struct {
	db         *sql.DB
	migrations []Migration
}

func NewRunner(db *sql.DB) *Runner {
	ms := allMigrations()
	sort.Slice(ms, func(i, j int) bool { return ms[i].ID < ms[j].ID })
	return &Runner{db: db, migrations: ms}
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (r *Runner) applied() (map[string]bool, error) {
	rows, err := r.db.Query("SELECT id FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan migration id: %w", err)
		}
		done[id] = true
	}
	return done, rows.Err()
}

// inTx runs fn in a transaction, rolling back on any error.
func (r *Runner) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to rollback transaction: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Run applies every pending migration in ID order.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	done, err := r.applied()
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range r.migrations {
		if done[m.ID] {
			logger.Debug("Migration %s already applied, skipping", m.ID)
			continue
		}

		logger.Debug("Running migration: %s - %s", m.ID, m.Description)
		m := m
		err := r.inTx(func(tx *sql.Tx) error {
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("migration %s failed: %w", m.ID, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (id, description, applied_at) VALUES (?, ?, ?)",
				m.ID, m.Description, time.Now().UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		pending++
	}

	if pending > 0 {
		logger.Info("Applied %d database migrations", pending)
	}
	return nil
}

// Status lists every known migration and whether it is applied.
func (r *Runner) Status() ([]MigrationStatus, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.applied()
	if err != nil {
		return nil, err
	}

	status := make([]MigrationStatus, 0, len(r.migrations))
	for _, m := range r.migrations {
		status = append(status, MigrationStatus{ID: m.ID, Description: m.Description, Applied: done[m.ID]})
	}
	return status, nil
}

// Rollback reverts one applied migration that defines Down.
func (r *Runner) Rollback(id string) error {
	var target *Migration
	for i := range r.migrations {
		if r.migrations[i].ID == id {
			target = &r.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %s not found", id)
	}
	if target.Down == nil {
		return fmt.Errorf("migration %s does not support rollback", id)
	}

	done, err := r.applied()
	if err != nil {
		return err
	}
	if !done[id] {
		return fmt.Errorf("migration %s is not applied", id)
	}

	logger.Info("Rolling back migration: %s - %s", target.ID, target.Description)
	return r.inTx(func(tx *sql.Tx) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("rollback %s failed: %w", id, err)
		}
		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to remove migration record %s: %w", id, err)
		}
		return nil
	})
}
