package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/streed/litewrite/internal/constants"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
)

// Storage is the slice of the note store that holds preferences.
type Storage interface {
	SetPreference(ctx context.Context, name, value string) error
	GetPreference(ctx context.Context, name string) (string, bool, error)
	DeletePreference(ctx context.Context, name string) error
}

// PreferencesRepository layers typed accessors over scalar preferences
type PreferencesRepository struct {
	store Storage
}

// NewPreferencesRepository creates a new preferences repository
func NewPreferencesRepository(store Storage) *PreferencesRepository {
	return &PreferencesRepository{store: store}
}

// Get retrieves a raw preference value
func (r *PreferencesRepository) Get(ctx context.Context, key string) (string, bool, error) {
	return r.store.GetPreference(ctx, key)
}

// Delete removes a preference
func (r *PreferencesRepository) Delete(ctx context.Context, key string) error {
	return r.store.DeletePreference(ctx, key)
}

// SetString stores a string preference
func (r *PreferencesRepository) SetString(ctx context.Context, key, value string) error {
	return r.store.SetPreference(ctx, key, value)
}

// GetString retrieves a string preference
func (r *PreferencesRepository) GetString(ctx context.Context, key, defaultValue string) string {
	value, ok, err := r.store.GetPreference(ctx, key)
	if err != nil {
		logger.Debug("Failed to read preference %s: %v", key, err)
		return defaultValue
	}
	if !ok {
		return defaultValue
	}
	return value
}

// SetBool stores a boolean preference
func (r *PreferencesRepository) SetBool(ctx context.Context, key string, value bool) error {
	valueStr := constants.BoolFalse
	if value {
		valueStr = constants.BoolTrue
	}
	return r.store.SetPreference(ctx, key, valueStr)
}

// GetBool retrieves a boolean preference
func (r *PreferencesRepository) GetBool(ctx context.Context, key string, defaultValue bool) bool {
	value, ok, err := r.store.GetPreference(ctx, key)
	if err != nil || !ok {
		return defaultValue
	}
	parsed, err := ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// SetJSON stores a JSON preference (marshals the object)
func (r *PreferencesRepository) SetJSON(ctx context.Context, key string, value interface{}) error {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.store.SetPreference(ctx, key, string(jsonBytes))
}

// GetJSON retrieves and unmarshals a JSON preference. It reports false when
// the key is unset.
func (r *PreferencesRepository) GetJSON(ctx context.Context, key string, target interface{}) (bool, error) {
	value, ok, err := r.store.GetPreference(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		return true, fmt.Errorf("preference %s is not valid JSON: %w", key, err)
	}
	return true, nil
}

// HasKey checks if a preference key exists
func (r *PreferencesRepository) HasKey(ctx context.Context, key string) bool {
	_, ok, err := r.store.GetPreference(ctx, key)
	return err == nil && ok
}

// DeviceID returns the installation id sent to the AI endpoint, creating
// and persisting one on first use. When storage is unavailable a fresh id
// is returned on every call.
func (r *PreferencesRepository) DeviceID(ctx context.Context) string {
	if id := r.GetString(ctx, constants.PrefDeviceID, ""); id != "" {
		return id
	}
	id := uuid.NewString()
	if err := r.SetString(ctx, constants.PrefDeviceID, id); err != nil {
		logger.Debug("Failed to persist device id: %v", err)
	}
	return id
}

// ParseBool accepts true/false, yes/no and 1/0.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case constants.BoolTrue, constants.BoolYes, constants.BoolOne:
		return true, nil
	case constants.BoolFalse, constants.BoolNo, constants.BoolZero:
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", interrors.ErrInvalidBoolean, value)
}
