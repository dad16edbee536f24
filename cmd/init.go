package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize litewrite configuration",
	Long: `Initialize litewrite configuration interactively or with flags.
This command sets up the configuration file and creates necessary directories.`,
	RunE: runInit,
}

var (
	initDataDir     string
	initAPIKey      string
	initBackend     string
	initInteractive bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDataDir, "data-dir", "", "Data directory for storing notes")
	initCmd.Flags().StringVar(&initAPIKey, "gemini-api-key", "", "Gemini API key (leave empty to disable AI features)")
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendSQLite, "Storage backend: sqlite, badger or none")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Run interactive setup")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if config already exists
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Configuration already exists at: %s\n", configPath)
		if !confirm(reader, "Do you want to overwrite it? (y/N): ") {
			fmt.Println("Configuration initialization cancelled.")
			return nil
		}
	}

	if !config.IsValidBackend(initBackend) {
		return fmt.Errorf("unknown storage backend %q", initBackend)
	}

	// Interactive mode
	if initInteractive || (initDataDir == "" && initAPIKey == "") {
		fmt.Println("=== litewrite Configuration Setup ===")
		fmt.Println()

		defaultDataDir := config.GetDefaultDataDirectory()
		fmt.Printf("Data directory [%s]: ", defaultDataDir)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			initDataDir = expandPath(input)
		} else {
			initDataDir = defaultDataDir
		}

		fmt.Printf("Storage backend (sqlite/badger/none) [%s]: ", initBackend)
		input, _ = reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			if !config.IsValidBackend(input) {
				return fmt.Errorf("unknown storage backend %q", input)
			}
			initBackend = input
		}

		fmt.Printf("Gemini API key (empty to disable AI): ")
		input, _ = reader.ReadString('\n')
		initAPIKey = strings.TrimSpace(input)
	}

	cfg, err := config.InitializeConfig(initDataDir, initAPIKey)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if cfg.StorageBackend != initBackend {
		cfg.StorageBackend = initBackend
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	}

	// Display summary
	fmt.Println("\n=== Configuration Summary ===")
	fmt.Printf("Config file:        %s\n", configPath)
	fmt.Printf("Data directory:     %s\n", cfg.DataDirectory)
	fmt.Printf("Storage backend:    %s\n", cfg.StorageBackend)
	fmt.Printf("Database path:      %s\n", cfg.GetDatabasePath())
	fmt.Printf("Gemini model:       %s\n", cfg.GeminiModel)
	fmt.Printf("AI features:        %v\n", cfg.HasAI())

	fmt.Println("\nConfiguration initialized successfully!")
	fmt.Println("You can now use 'litewrite' commands to manage your notes.")

	return nil
}

func confirm(reader *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[2:])
		}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
