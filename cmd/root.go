package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/config"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/services"
	"github.com/streed/litewrite/internal/store"
)

var (
	appConfig *config.Config
	svc       *services.Services
	debugFlag bool
	Version   = "dev" // Version is set from main.go
)

var rootCmd = &cobra.Command{
	Use:     "litewrite",
	Short:   "A small note keeper with AI-assisted note generation",
	Version: Version,
	Long: `litewrite keeps a flat set of short notes, finds them with typo-tolerant search,
and can regenerate or import the whole set through a Gemini model.

Notes are stored in SQLite by default. Set storage_backend to "badger" for an
embedded key-value store or "none" to run without persistence.

First time users should run 'litewrite init' to set up the configuration.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svc != nil {
			if err := svc.Close(); err != nil {
				logger.Debug("Failed to close store: %v", err)
			}
		}
	},
}

func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initAppConfig)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func initAppConfig() {
	// Skip initialization for init and config commands
	if len(os.Args) > 1 && (os.Args[1] == "init" || os.Args[1] == "config") {
		return
	}

	var err error
	appConfig, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please run 'litewrite init' to set up the configuration.\n")
		os.Exit(1)
	}

	// Enable debug mode from flag or config
	if debugFlag || appConfig.Debug {
		logger.SetDebugMode(true)
		logger.Debug("Configuration loaded from: %s", func() string {
			path, _ := config.GetConfigPath()
			return path
		}())
		logger.Debug("Data directory: %s", appConfig.DataDirectory)
		logger.Debug("Storage backend: %s", appConfig.StorageBackend)
		logger.Debug("Gemini model: %s", appConfig.GeminiModel)
		logger.Debug("AI configured: %v", appConfig.HasAI())
	}

	// The store opens lazily, so commands that never touch notes pay nothing.
	svc = services.NewServices(appConfig, store.FromConfig(appConfig))
}

// requireAI fails early for commands that cannot work without a model.
func requireAI() error {
	if !svc.Ingest.IsAvailable() {
		return fmt.Errorf("AI is not configured, set gemini_api_key with 'litewrite config set gemini_api_key <key>' or LITEWRITE_GEMINI_API_KEY")
	}
	return nil
}
