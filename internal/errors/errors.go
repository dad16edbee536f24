package errors

import "errors"

// Common errors used throughout the application
var (
	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTransactionAborted = errors.New("transaction aborted")
	ErrNoteNotFound       = errors.New("note not found")
	ErrReservedID         = errors.New("note id uses a reserved prefix")
	ErrDuplicateID        = errors.New("duplicate note id")

	// AI errors
	ErrMalformedAIOutput = errors.New("malformed AI output")
	ErrRateLimited       = errors.New("rate limited by AI service")
	ErrEmptyCompletion   = errors.New("AI response contained no candidates")
	ErrAIUnconfigured    = errors.New("AI endpoint is not configured")

	// Validation errors
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrInvalidBoolean     = errors.New("invalid boolean value (use true/false)")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidNoteID      = errors.New("invalid note ID")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)
