package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/streed/litewrite/internal/constants"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
)

// Records live under "notes:<id>" with the note JSON as value.
var notesPrefix = []byte(constants.NotesContainer + ":")

func recordKey(id string) []byte {
	return append(append([]byte{}, notesPrefix...), id...)
}

type BadgerBackend struct {
	db *badger.DB
}

// badgerLogger routes badger's chatter through the application logger,
// demoting its info lines to debug.
type badgerLogger struct {
	*logrus.Entry
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.Entry.Debugf(format, args...)
}

// OpenBadger opens (creating if needed) a badger directory at path.
func OpenBadger(path string) (*BadgerBackend, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory: %w", err)
	}

	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{logger.WithField("component", "badger")})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

// OpenBadgerInMemory opens a non-persistent badger instance.
func OpenBadgerInMemory() (*BadgerBackend, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger{logger.WithField("component", "badger")})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) GetAll(ctx context.Context) ([]models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var notes []models.Note
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(notesPrefix); it.ValidForPrefix(notesPrefix); it.Next() {
			var n models.Note
			err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &n)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			notes = append(notes, n)
		}
		return nil
	})
	return notes, err
}

func (b *BadgerBackend) Get(ctx context.Context, id string) (models.Note, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Note{}, false, err
	}

	var n models.Note
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &n)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Note{}, false, nil
	}
	if err != nil {
		return models.Note{}, false, err
	}
	return n, true, nil
}

func (b *BadgerBackend) Put(ctx context.Context, note models.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("serialize note: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(note.ID), data)
	})
}

func (b *BadgerBackend) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(id))
	})
}

func (b *BadgerBackend) ReplaceNotes(ctx context.Context, notes []models.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payloads := make([][]byte, len(notes))
	for i, n := range notes {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("serialize note %s: %w", n.ID, err)
		}
		payloads[i] = data
	}

	return b.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Seek(notesPrefix); it.ValidForPrefix(notesPrefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			id := strings.TrimPrefix(string(key), string(notesPrefix))
			if !models.IsReservedID(id) {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("clear notes: %w", err)
			}
		}
		for i, n := range notes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := txn.Set(recordKey(n.ID), payloads[i]); err != nil {
				return fmt.Errorf("insert note %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
