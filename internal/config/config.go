package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/streed/litewrite/internal/constants"
)

// Storage backends understood by the note store.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendNone   = "none"
)

// ID strategies for newly created notes.
const (
	IDStrategyTimestamp = "timestamp"
	IDStrategyUUID      = "uuid"
)

const envPrefix = "LITEWRITE"

type Config struct {
	DataDirectory  string `json:"data_directory,omitempty" mapstructure:"data_directory"`
	DatabasePath   string `json:"database_path,omitempty" mapstructure:"database_path"`
	StorageBackend string `json:"storage_backend" mapstructure:"storage_backend"`

	// AI settings
	GeminiAPIURL          string `json:"gemini_api_url,omitempty" mapstructure:"gemini_api_url"`
	GeminiAPIKey          string `json:"gemini_api_key,omitempty" mapstructure:"gemini_api_key"`
	GeminiModel           string `json:"gemini_model" mapstructure:"gemini_model"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`

	IDStrategy string `json:"id_strategy" mapstructure:"id_strategy"`
	Debug      bool   `json:"debug" mapstructure:"debug"`
	ServerHost string `json:"server_host" mapstructure:"server_host"`
	ServerPort int    `json:"server_port" mapstructure:"server_port"`
}

// getDefaultConfig returns a fresh copy of the default configuration
func getDefaultConfig() Config {
	return Config{
		DataDirectory:         "", // Will be set to ~/.local/share/litewrite
		DatabasePath:          "", // Will be set to DataDirectory/litewrite.db
		StorageBackend:        BackendSQLite,
		GeminiAPIURL:          "", // Empty means derive from GeminiModel
		GeminiModel:           "gemini-1.5-flash",
		RequestTimeoutSeconds: constants.DefaultRequestTimeoutSeconds,
		IDStrategy:            IDStrategyTimestamp,
		Debug:                 false,
		ServerHost:            "localhost",
		ServerPort:            8080,
	}
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "litewrite", "config.json"), nil
}

func GetDefaultDataDirectory() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", ".litewrite")
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "litewrite")
}

// newViper builds a viper instance seeded with defaults so that every key
// can also be supplied through a LITEWRITE_* environment variable.
func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := getDefaultConfig()
	v.SetDefault("data_directory", defaults.DataDirectory)
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("storage_backend", defaults.StorageBackend)
	v.SetDefault("gemini_api_url", defaults.GeminiAPIURL)
	v.SetDefault("gemini_api_key", defaults.GeminiAPIKey)
	v.SetDefault("gemini_model", defaults.GeminiModel)
	v.SetDefault("request_timeout_seconds", defaults.RequestTimeoutSeconds)
	v.SetDefault("id_strategy", defaults.IDStrategy)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("server_host", defaults.ServerHost)
	v.SetDefault("server_port", defaults.ServerPort)
	return v
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	v := newViper(configPath)
	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills fields a partial config file or env left empty.
func (c *Config) applyDefaults() {
	defaults := getDefaultConfig()

	if c.DataDirectory == "" {
		c.DataDirectory = GetDefaultDataDirectory()
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDirectory, constants.DatabaseFile)
	}
	if c.StorageBackend == "" {
		c.StorageBackend = defaults.StorageBackend
	}
	if c.GeminiModel == "" {
		c.GeminiModel = defaults.GeminiModel
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if c.IDStrategy == "" {
		c.IDStrategy = defaults.IDStrategy
	}
	if c.ServerHost == "" {
		c.ServerHost = defaults.ServerHost
	}
	if c.ServerPort == 0 {
		c.ServerPort = defaults.ServerPort
	}
}

func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create data directory if it doesn't exist
	if cfg.DataDirectory != "" {
		if err := os.MkdirAll(cfg.DataDirectory, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write config file with secure permissions, it may hold an API key
	if err := os.WriteFile(configPath, data, constants.ConfigFileMode); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func InitializeConfig(dataDir, geminiAPIKey string) (*Config, error) {
	// Get a fresh copy of the default configuration
	cfg := getDefaultConfig()

	if dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		cfg.DataDirectory = GetDefaultDataDirectory()
	}

	cfg.DatabasePath = filepath.Join(cfg.DataDirectory, constants.DatabaseFile)
	cfg.GeminiAPIKey = geminiAPIKey

	if err := Save(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) GetDatabasePath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.DataDirectory, constants.DatabaseFile)
}

// GetBadgerPath returns the directory used by the badger backend.
func (c *Config) GetBadgerPath() string {
	return filepath.Join(c.DataDirectory, constants.BadgerDirectory)
}

// GetGeminiURL returns the generateContent endpoint, honouring an explicit
// override before falling back to the public API for the configured model.
func (c *Config) GetGeminiURL() string {
	if c.GeminiAPIURL != "" {
		return c.GeminiAPIURL
	}
	return fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", c.GeminiModel)
}

func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return time.Duration(constants.DefaultRequestTimeoutSeconds) * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// HasAI reports whether an API key is available for the AI endpoint.
func (c *Config) HasAI() bool {
	return c.GeminiAPIKey != ""
}

// IsValidBackend checks a storage_backend value.
func IsValidBackend(name string) bool {
	switch name {
	case BackendSQLite, BackendBadger, BackendNone:
		return true
	}
	return false
}

// IsValidIDStrategy checks an id_strategy value.
func IsValidIDStrategy(name string) bool {
	return name == IDStrategyTimestamp || name == IDStrategyUUID
}
