package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/config"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/preferences"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage litewrite configuration",
	Long:  `View and manage litewrite configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current litewrite configuration settings.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value.

Available keys:
  - data_directory: Data directory for storing notes
  - database_path: SQLite database file (defaults to data_directory/litewrite.db)
  - storage_backend: sqlite, badger or none
  - gemini_api_url: Override the generateContent endpoint
  - gemini_api_key: API key sent as x-goog-api-key
  - gemini_model: Model used when gemini_api_url is empty
  - request_timeout_seconds: Timeout for AI requests
  - id_strategy: timestamp or uuid
  - debug: Enable/disable debug logging (true/false)
  - server_host: Default host for 'litewrite serve'
  - server_port: Default port for 'litewrite serve'

Every key can also be set through the environment, e.g. LITEWRITE_GEMINI_API_KEY.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println("=== litewrite Configuration ===")
	fmt.Printf("Config file:              %s\n", configPath)
	fmt.Printf("data_directory:           %s\n", cfg.DataDirectory)
	fmt.Printf("database_path:            %s\n", cfg.GetDatabasePath())
	fmt.Printf("storage_backend:          %s\n", cfg.StorageBackend)
	if cfg.StorageBackend == config.BackendBadger {
		fmt.Printf("Badger directory:         %s\n", cfg.GetBadgerPath())
	}
	fmt.Printf("gemini_model:             %s\n", cfg.GeminiModel)
	fmt.Printf("Gemini endpoint:          %s\n", cfg.GetGeminiURL())
	if cfg.HasAI() {
		fmt.Printf("gemini_api_key:           %s\n", maskSecret(cfg.GeminiAPIKey))
	} else {
		fmt.Printf("gemini_api_key:           (not set, AI features disabled)\n")
	}
	fmt.Printf("request_timeout_seconds:  %d\n", cfg.RequestTimeoutSeconds)
	fmt.Printf("id_strategy:              %s\n", cfg.IDStrategy)
	fmt.Printf("debug:                    %v\n", cfg.Debug)
	fmt.Printf("server_host:              %s\n", cfg.ServerHost)
	fmt.Printf("server_port:              %d\n", cfg.ServerPort)

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println(configPath)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if key == "gemini_api_key" {
		value = maskSecret(value)
	}
	fmt.Printf("Configuration updated: %s = %s\n", key, value)
	return nil
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "data_directory":
		cfg.DataDirectory = expandPath(value)
		cfg.DatabasePath = "" // Will be regenerated
	case "database_path":
		cfg.DatabasePath = expandPath(value)
	case "storage_backend":
		if !config.IsValidBackend(value) {
			return fmt.Errorf("%w: %s", interrors.ErrUnsupportedBackend, value)
		}
		cfg.StorageBackend = value
	case "gemini_api_url":
		cfg.GeminiAPIURL = value
	case "gemini_api_key":
		cfg.GeminiAPIKey = value
	case "gemini_model":
		cfg.GeminiModel = value
	case "request_timeout_seconds":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid timeout %q: must be a positive number of seconds", value)
		}
		cfg.RequestTimeoutSeconds = seconds
	case "id_strategy":
		if !config.IsValidIDStrategy(value) {
			return fmt.Errorf("invalid id strategy %q: use %s or %s", value, config.IDStrategyTimestamp, config.IDStrategyUUID)
		}
		cfg.IDStrategy = value
	case "debug":
		debug, err := preferences.ParseBool(value)
		if err != nil {
			return err
		}
		cfg.Debug = debug
	case "server_host":
		cfg.ServerHost = value
	case "server_port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		cfg.ServerPort = port
	default:
		return fmt.Errorf("%w: %s", interrors.ErrUnknownConfigKey, key)
	}
	return nil
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
