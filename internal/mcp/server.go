package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/streed/litewrite/internal/constants"
	"github.com/streed/litewrite/internal/export"
	"github.com/streed/litewrite/internal/ingest"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
	"github.com/streed/litewrite/internal/services"
)

type NotesServer struct {
	services  *services.Services
	mcpServer *server.MCPServer
}

func NewNotesServer(svc *services.Services, version string) *NotesServer {
	ns := &NotesServer{services: svc}

	// Create MCP server
	ns.mcpServer = server.NewMCPServer(
		"litewrite",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)

	ns.registerTools()
	ns.registerResources()

	return ns
}

func (s *NotesServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *NotesServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of notes to return (default: all)"),
		),
	), s.handleListNotes)

	s.mcpServer.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Get a specific note by ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The ID of the note to retrieve"),
		),
	), s.handleGetNote)

	s.mcpServer.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Create a note, or replace the content of an existing note when an ID is given"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The content of the note"),
		),
		mcp.WithString("id",
			mcp.Description("ID of the note to overwrite (optional)"),
		),
	), s.handleSaveNote)

	s.mcpServer.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The ID of the note to delete"),
		),
	), s.handleDeleteNote)

	s.mcpServer.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Typo tolerant search over note contents. Exact matches rank first."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10)"),
		),
	), s.handleSearchNotes)

	s.mcpServer.AddTool(mcp.NewTool("ingest_notes",
		mcp.WithDescription("Replace ALL notes with the notes in a model response containing a JSON array of strings, optionally wrapped in a code fence"),
		mcp.WithString("raw",
			mcp.Required(),
			mcp.Description("The raw model output"),
		),
	), s.handleIngestNotes)

	s.mcpServer.AddTool(mcp.NewTool("import_notes",
		mcp.WithDescription("Replace ALL notes with the given contents, one note per entry"),
		mcp.WithArray("contents",
			mcp.Required(),
			mcp.Description("Note contents"),
			mcp.WithStringItems(),
		),
	), s.handleImportNotes)

	s.mcpServer.AddTool(mcp.NewTool("generate_notes",
		mcp.WithDescription("Ask the AI for a new note set about a topic and replace ALL notes with it"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("What the new notes should be about"),
		),
	), s.handleGenerateNotes)

	s.mcpServer.AddTool(mcp.NewTool("export_notes",
		mcp.WithDescription("Export all notes as text, json or yaml"),
		mcp.WithString("format",
			mcp.Description("One of text, json, yaml (default: text)"),
		),
	), s.handleExportNotes)

	s.mcpServer.AddTool(mcp.NewTool("get_preference",
		mcp.WithDescription("Read a preference such as font or theme"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Preference name"),
		),
	), s.handleGetPreference)

	s.mcpServer.AddTool(mcp.NewTool("set_preference",
		mcp.WithDescription("Set a preference such as font or theme"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Preference name"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Preference value"),
		),
	), s.handleSetPreference)
}

func (s *NotesServer) registerResources() {
	recentResource := mcp.NewResource("notes://recent",
		"Recent Notes",
		mcp.WithResourceDescription("The most recently created notes"),
		mcp.WithMIMEType("text/plain"),
	)
	s.mcpServer.AddResource(recentResource, s.handleRecentNotes)

	statsResource := mcp.NewResource("notes://stats",
		"Notes Statistics",
		mcp.WithResourceDescription("Statistics about the note store"),
		mcp.WithMIMEType("text/plain"),
	)
	s.mcpServer.AddResource(statsResource, s.handleStats)
}

// Tool handlers
func (s *NotesServer) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: list_notes")

	notes, err := s.services.Notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if limit := request.GetInt("limit", 0); limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return mcp.NewToolResultText(formatNotes(notes)), nil
}

func (s *NotesServer) handleGetNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: get_note")

	id, err := request.RequireString("id")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'id': %w", err)
	}

	note, err := s.services.Notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("ID: %s\nCreated: %s\n\n%s",
		note.ID, note.Created().Format("2006-01-02 15:04:05"), note.Content)), nil
}

func (s *NotesServer) handleSaveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: save_note")

	content, err := request.RequireString("content")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'content': %w", err)
	}

	id := request.GetString("id", "")
	if id == "" {
		note, err := s.services.Notes.Create(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("failed to create note: %w", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Note created successfully with ID: %s", note.ID)), nil
	}

	note := models.Note{ID: id, Content: content}
	if existing, err := s.services.Notes.Get(ctx, id); err == nil {
		note.CreatedAt = existing.CreatedAt
	}
	if err := s.services.Notes.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Note %s saved successfully", id)), nil
}

func (s *NotesServer) handleDeleteNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: delete_note")

	id, err := request.RequireString("id")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'id': %w", err)
	}

	if err := s.services.Notes.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted note %s", id)), nil
}

func (s *NotesServer) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: search_notes")

	query, err := request.RequireString("query")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'query': %w", err)
	}

	notes, err := s.services.Search.SearchNotes(ctx, query, request.GetInt("limit", 10))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No notes found matching %q", query)), nil
	}
	return mcp.NewToolResultText(formatNotes(notes)), nil
}

func (s *NotesServer) handleIngestNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: ingest_notes")

	raw, err := request.RequireString("raw")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'raw': %w", err)
	}

	res, err := s.services.Ingest.Ingest(ctx, raw)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(resultSummary(res)), nil
}

func (s *NotesServer) handleImportNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: import_notes")

	contents, err := request.RequireStringSlice("contents")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'contents': %w", err)
	}

	res, err := s.services.Ingest.IngestContents(ctx, contents)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(resultSummary(res)), nil
}

func (s *NotesServer) handleGenerateNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: generate_notes")

	topic, err := request.RequireString("topic")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'topic': %w", err)
	}

	res, err := s.services.Ingest.Generate(ctx, topic)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(resultSummary(res)), nil
}

func (s *NotesServer) handleExportNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("MCP tool call: export_notes")

	notes, err := s.services.Notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	out, err := export.Render(request.GetString("format", export.FormatText), notes)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

func (s *NotesServer) handleGetPreference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'name': %w", err)
	}

	value, ok, err := s.services.Preferences.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("Preference %s is not set", name)), nil
	}
	return mcp.NewToolResultText(value), nil
}

func (s *NotesServer) handleSetPreference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'name': %w", err)
	}
	value, err := request.RequireString("value")
	if err != nil {
		return nil, fmt.Errorf("missing required parameter 'value': %w", err)
	}

	if err := s.services.Preferences.SetString(ctx, name, value); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Preference %s set to %s", name, value)), nil
}

// Resource handlers
func (s *NotesServer) handleRecentNotes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logger.Debug("MCP resource read: notes://recent")

	notes, err := s.services.Notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent notes: %w", err)
	}
	notes = models.SortByCreatedDesc(notes)
	if len(notes) > constants.DefaultListLimit {
		notes = notes[:constants.DefaultListLimit]
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     "Recent Notes:\n\n" + formatNotes(notes),
		},
	}, nil
}

func (s *NotesServer) handleStats(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logger.Debug("MCP resource read: notes://stats")

	notes, err := s.services.Notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get note count: %w", err)
	}

	stats := map[string]interface{}{
		"total_notes":     len(notes),
		"storage_backend": s.services.Config.StorageBackend,
		"persistent":      s.services.Store.Available(),
		"ai_available":    s.services.Ingest.IsAvailable(),
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func formatNotes(notes []models.Note) string {
	if len(notes) == 0 {
		return "No notes."
	}
	var b strings.Builder
	for i, note := range notes {
		fmt.Fprintf(&b, "%d. [ID: %s] %s\n", i+1, note.ID, truncateString(note.Content, 150))
	}
	return b.String()
}

func resultSummary(res ingest.Result) string {
	return fmt.Sprintf("Replaced all notes with %d new notes.\n\n%s", len(res.Notes), formatNotes(res.Notes))
}

// Helper function to truncate strings
func truncateString(s string, maxLen int) string {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen]) + "..."
}
