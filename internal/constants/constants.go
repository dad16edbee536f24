package constants

// Boolean string values
const (
	BoolTrue  = "true"
	BoolFalse = "false"
	BoolYes   = "yes"
	BoolNo    = "no"
	BoolOne   = "1"
	BoolZero  = "0"
)

// Storage layout
const (
	DatabaseFile     = "litewrite.db"
	BadgerDirectory  = "litewrite-badger"
	NotesContainer   = "notes"
	PreferencePrefix = "__pref__:"
)

// Well-known preference names
const (
	PrefFont     = "font"
	PrefTheme    = "theme"
	PrefDeviceID = "device_id"
)

// Magic numbers for various operations
const (
	// Display limits
	DefaultListLimit   = 20
	PreviewLength      = 100
	ShortPreviewLength = 20

	// Search tolerance: allowed edits per query rune
	FuzzyThreshold = 0.4

	// AI request defaults
	DefaultRequestTimeoutSeconds = 60
)

// File permissions
const (
	ConfigFileMode = 0600 // Secure file permissions for config
)
