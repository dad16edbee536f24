package cmd

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for LLM integration",
	Long: `Start a Model Context Protocol (MCP) server that allows LLMs to work with your notes.

Tools:
- list_notes, get_note, save_note, delete_note: note management
- search_notes: typo-tolerant search
- ingest_notes: replace all notes from a raw AI answer
- import_notes: replace all notes with a list of contents
- generate_notes: regenerate all notes about a topic
- export_notes: export as text, json or yaml
- get_preference, set_preference: stored preferences

Resources:
- notes://recent: Most recently created notes
- notes://stats: Note count and service availability

To use with Claude Desktop, add this to your claude_desktop_config.json:
{
  "mcpServers": {
    "litewrite": {
      "command": "litewrite",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	logger.SetOutput(os.Stderr)
	logger.Info("Starting MCP server...")

	notesServer := mcp.NewNotesServer(svc, Version)
	mcpServer := notesServer.GetMCPServer()

	logger.Info("MCP server ready. Listening on stdio...")
	if err := server.ServeStdio(mcpServer); err != nil {
		if err.Error() != "EOF" {
			logger.Error("MCP server error: %v", err)
			return err
		}
	}

	logger.Info("MCP server shutting down")
	return nil
}
