package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/api"
	"github.com/streed/litewrite/internal/logger"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Start an HTTP API server that exposes litewrite over REST endpoints.

The server provides endpoints for:

- Notes CRUD operations and bulk replacement
- Typo-tolerant search
- AI ingest, import, generation and translation
- Export as text, JSON or YAML
- Preferences
- A Gemini forwarding route at /api/gemini that keeps the API key server side

Host and port default to server_host and server_port from the configuration.

Examples:
  litewrite serve                             # Start on the configured address
  litewrite serve --host 0.0.0.0 --port 3000  # Start on all interfaces, port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind the server to")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to bind the server to")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("Initializing HTTP API server...")

	if serveHost == "" {
		serveHost = appConfig.ServerHost
	}
	if servePort == 0 {
		servePort = appConfig.ServerPort
	}

	apiServer := api.NewAPIServer(svc)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- apiServer.Start(serveHost, servePort)
	}()

	fmt.Printf("\nlitewrite HTTP API Server\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("📍 Server URL: http://%s:%d\n", serveHost, servePort)
	fmt.Printf("🔍 Health:     http://%s:%d/api/v1/health\n", serveHost, servePort)
	fmt.Printf("🤖 Gemini:     http://%s:%d/api/gemini (AI configured: %v)\n", serveHost, servePort, appConfig.HasAI())
	fmt.Printf("\n🎯 Example API calls:\n")
	fmt.Printf("   curl http://%s:%d/api/v1/notes\n", serveHost, servePort)
	fmt.Printf("   curl -X POST -d '{\"query\":\"milk\"}' http://%s:%d/api/v1/notes/search\n", serveHost, servePort)
	fmt.Printf("   curl http://%s:%d/api/v1/export?format=json\n", serveHost, servePort)
	fmt.Printf("\n✋ Press Ctrl+C to stop the server\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, shutting down gracefully...", sig)
		if err := apiServer.Stop(); err != nil {
			logger.Error("Error during server shutdown: %v", err)
			return err
		}
		logger.Info("Server stopped successfully")
		return nil
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error: %v", err)
			return err
		}
		return nil
	}
}
