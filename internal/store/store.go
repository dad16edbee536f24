package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/streed/litewrite/internal/constants"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
)

// Backend is the persistence substrate under a Store. Backends see raw
// records: preference entries are ordinary records whose id carries the
// reserved prefix.
type Backend interface {
	GetAll(ctx context.Context) ([]models.Note, error)
	Get(ctx context.Context, id string) (models.Note, bool, error)
	Put(ctx context.Context, note models.Note) error
	Delete(ctx context.Context, id string) error
	// ReplaceNotes removes every record without the reserved prefix and
	// inserts notes, all in one transaction.
	ReplaceNotes(ctx context.Context, notes []models.Note) error
	Close() error
}

// Opener produces a Backend on first use.
type Opener func() (Backend, error)

// Store holds notes and preferences. It opens its backend lazily and fails
// open: when the backend cannot be opened every read is empty and every
// write is dropped.
type Store struct {
	open    Opener
	once    sync.Once
	backend Backend
	openErr error
}

// Open returns a Store that calls opener on first access.
func Open(opener Opener) *Store {
	return &Store{open: opener}
}

// New wraps an already opened backend.
func New(backend Backend) *Store {
	s := &Store{backend: backend}
	s.once.Do(func() {})
	return s
}

func (s *Store) load() Backend {
	s.once.Do(func() {
		if s.open == nil {
			s.openErr = interrors.ErrStorageUnavailable
			return
		}
		backend, err := s.open()
		if err != nil {
			s.openErr = fmt.Errorf("%w: %v", interrors.ErrStorageUnavailable, err)
			logger.Error("Note storage unavailable, continuing without persistence: %v", err)
			return
		}
		s.backend = backend
	})
	return s.backend
}

// Available reports whether a backend is open. It triggers the lazy open.
func (s *Store) Available() bool {
	return s.load() != nil
}

// Err returns the reason the store is unavailable, or nil.
func (s *Store) Err() error {
	s.load()
	return s.openErr
}

// GetAll returns every note, excluding preference records.
func (s *Store) GetAll(ctx context.Context) ([]models.Note, error) {
	b := s.load()
	if b == nil {
		logger.Debug("GetAll skipped: storage unavailable")
		return []models.Note{}, nil
	}

	records, err := b.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	notes := make([]models.Note, 0, len(records))
	for _, r := range records {
		if !models.IsReservedID(r.ID) {
			notes = append(notes, r)
		}
	}
	return notes, nil
}

// Get looks up a single note.
func (s *Store) Get(ctx context.Context, id string) (models.Note, bool, error) {
	b := s.load()
	if b == nil || models.IsReservedID(id) {
		return models.Note{}, false, nil
	}

	note, ok, err := b.Get(ctx, id)
	if err != nil {
		return models.Note{}, false, fmt.Errorf("failed to read note %s: %w", id, err)
	}
	return note, ok, nil
}

// Save upserts a note by id.
func (s *Store) Save(ctx context.Context, note models.Note) error {
	if models.IsReservedID(note.ID) {
		return fmt.Errorf("%w: %s", interrors.ErrReservedID, note.ID)
	}
	if note.ID == "" {
		return interrors.ErrInvalidNoteID
	}

	b := s.load()
	if b == nil {
		logger.Debug("Save of note %s skipped: storage unavailable", note.ID)
		return nil
	}

	if err := b.Put(ctx, note); err != nil {
		return fmt.Errorf("failed to save note %s: %w", note.ID, err)
	}
	return nil
}

// Delete removes a note. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if models.IsReservedID(id) {
		return nil
	}

	b := s.load()
	if b == nil {
		logger.Debug("Delete of note %s skipped: storage unavailable", id)
		return nil
	}

	if err := b.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}

// ReplaceAll atomically swaps the note set for notes. Preferences are kept.
// On failure the previous set stays visible.
func (s *Store) ReplaceAll(ctx context.Context, notes []models.Note) error {
	seen := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		if n.ID == "" {
			return fmt.Errorf("%w: %w: empty id", interrors.ErrTransactionAborted, interrors.ErrInvalidNoteID)
		}
		if models.IsReservedID(n.ID) {
			return fmt.Errorf("%w: %w: %s", interrors.ErrTransactionAborted, interrors.ErrReservedID, n.ID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: %w: %s", interrors.ErrTransactionAborted, interrors.ErrDuplicateID, n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	b := s.load()
	if b == nil {
		logger.Debug("ReplaceAll of %d notes skipped: storage unavailable", len(notes))
		return nil
	}

	if err := b.ReplaceNotes(ctx, notes); err != nil {
		return fmt.Errorf("%w: %w", interrors.ErrTransactionAborted, err)
	}
	logger.Debug("Replaced note set with %d notes", len(notes))
	return nil
}

func preferenceKey(name string) string {
	return constants.PreferencePrefix + name
}

// SetPreference stores a scalar preference. Last write wins.
func (s *Store) SetPreference(ctx context.Context, name, value string) error {
	b := s.load()
	if b == nil {
		logger.Debug("SetPreference %s skipped: storage unavailable", name)
		return nil
	}

	record := models.Note{ID: preferenceKey(name), Content: value}
	if err := b.Put(ctx, record); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", name, err)
	}
	return nil
}

// GetPreference returns a preference value and whether it was set.
func (s *Store) GetPreference(ctx context.Context, name string) (string, bool, error) {
	b := s.load()
	if b == nil {
		return "", false, nil
	}

	record, ok, err := b.Get(ctx, preferenceKey(name))
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", name, err)
	}
	if !ok {
		return "", false, nil
	}
	return record.Content, true, nil
}

// DeletePreference removes a preference. Unset names are a no-op.
func (s *Store) DeletePreference(ctx context.Context, name string) error {
	b := s.load()
	if b == nil {
		return nil
	}
	if err := b.Delete(ctx, preferenceKey(name)); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", name, err)
	}
	return nil
}

// Close releases the backend if it was ever opened.
func (s *Store) Close() error {
	s.once.Do(func() {})
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
