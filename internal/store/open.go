package store

import (
	"fmt"

	"github.com/streed/litewrite/internal/config"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
)

// OpenerFor returns the lazy opener for the configured storage backend.
func OpenerFor(cfg *config.Config) Opener {
	switch cfg.StorageBackend {
	case config.BackendSQLite, "":
		path := cfg.GetDatabasePath()
		return func() (Backend, error) {
			logger.Debug("Opening sqlite store at %s", path)
			return OpenSQLite(path)
		}
	case config.BackendBadger:
		path := cfg.GetBadgerPath()
		return func() (Backend, error) {
			logger.Debug("Opening badger store at %s", path)
			return OpenBadger(path)
		}
	case config.BackendNone:
		return func() (Backend, error) {
			return nil, fmt.Errorf("storage disabled by configuration")
		}
	default:
		backend := cfg.StorageBackend
		return func() (Backend, error) {
			return nil, fmt.Errorf("%w: %s", interrors.ErrUnsupportedBackend, backend)
		}
	}
}

// FromConfig returns a lazily opened Store for cfg.
func FromConfig(cfg *config.Config) *Store {
	return Open(OpenerFor(cfg))
}
