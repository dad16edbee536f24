package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/export"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
)

type NoteRequest struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

type ReplaceNotesRequest struct {
	Notes []models.Note `json:"notes"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *APIServer) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.services.Notes.List(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *APIServer) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.services.Notes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, note)
}

// handleCreateNote saves a note. Without an id a new one is generated;
// with an id the note is upserted.
func (s *APIServer) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.ID == "" {
		note, err := s.services.Notes.Create(r.Context(), req.Content)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, note)
		return
	}

	note := models.Note{ID: req.ID, Content: req.Content}
	if existing, err := s.services.Notes.Get(r.Context(), req.ID); err == nil {
		note.CreatedAt = existing.CreatedAt
	}
	if err := s.services.Notes.Save(r.Context(), note); err != nil {
		s.writeFailure(w, err)
		return
	}
	saved, err := s.services.Notes.Get(r.Context(), req.ID)
	if err != nil {
		// Storage unavailable: echo what was accepted
		saved = note
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *APIServer) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	note, err := s.services.Notes.Update(r.Context(), mux.Vars(r)["id"], req.Content)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, note)
}

func (s *APIServer) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Notes.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}

func (s *APIServer) handleReplaceNotes(w http.ResponseWriter, r *http.Request) {
	var req ReplaceNotesRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Notes == nil {
		req.Notes = []models.Note{}
	}

	stored, err := s.services.Notes.ReplaceAll(r.Context(), req.Notes)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stored)
}

func (s *APIServer) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decode(w, r, &req) {
		return
	}

	notes, err := s.services.Search.SearchNotes(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *APIServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatText
	}

	notes, err := s.services.Notes.List(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	body, err := export.Render(format, notes)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	mime, ext := export.ContentType(format)
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=notes.%s", ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error("Failed to write export: %v", err)
	}
}

type PreferenceRequest struct {
	Value string `json:"value"`
}

func (s *APIServer) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	value, ok, err := s.services.Preferences.Get(r.Context(), name)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("preference %s is not set", name))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"name": name, "value": value})
}

func (s *APIServer) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var req PreferenceRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(name) == "" {
		s.writeFailure(w, interrors.ErrEmptyContent)
		return
	}

	if err := s.services.Preferences.SetString(r.Context(), name, req.Value); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"name": name, "value": req.Value})
}
