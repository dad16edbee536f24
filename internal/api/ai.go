package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
)

type IngestRequest struct {
	Raw string `json:"raw"`
}

// ImportRequest carries either ready note contents or free text to be
// split by the AI.
type ImportRequest struct {
	Contents []string `json:"contents,omitempty"`
	Text     string   `json:"text,omitempty"`
}

type GenerateRequest struct {
	Topic string `json:"topic"`
}

type TranslateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *APIServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.services.Ingest.Ingest(r.Context(), req.Raw)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *APIServer) handleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !s.decode(w, r, &req) {
		return
	}

	var err error
	var res interface{}
	switch {
	case req.Contents != nil:
		res, err = s.services.Ingest.IngestContents(r.Context(), req.Contents)
	case req.Text != "":
		res, err = s.services.Ingest.ImportText(r.Context(), req.Text)
	default:
		err = fmt.Errorf("%w: contents or text is required", interrors.ErrEmptyContent)
	}
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *APIServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.services.Ingest.Generate(r.Context(), req.Topic)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *APIServer) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.services.Ingest.Translate(r.Context(), req.Text, req.Language)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"translation": out})
}

type proxyResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func writeProxy(w http.ResponseWriter, status int, resp proxyResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode JSON response: %v", err)
	}
}

// handleGeminiProxy forwards the request body to the configured Gemini
// endpoint and wraps the answer in a success envelope.
func (s *APIServer) handleGeminiProxy(w http.ResponseWriter, r *http.Request) {
	serverError := proxyResponse{Success: false, Message: "Server error"}

	if s.services.AI == nil {
		logger.Error("Gemini proxy called without an API key configured")
		writeProxy(w, http.StatusInternalServerError, serverError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Error("Failed to read proxy request: %v", err)
		writeProxy(w, http.StatusInternalServerError, serverError)
		return
	}

	status, upstream, err := s.services.AI.Forward(r.Context(), body)
	if err != nil {
		if !errors.Is(err, interrors.ErrAIUnconfigured) {
			logger.Error("Gemini proxy request failed: %v", err)
		}
		writeProxy(w, http.StatusInternalServerError, serverError)
		return
	}

	if status < 200 || status >= 300 {
		writeProxy(w, status, proxyResponse{
			Success: false,
			Message: fmt.Sprintf("Gemini AI request failed with status %d", status),
		})
		return
	}

	data := json.RawMessage(upstream)
	if !json.Valid(upstream) {
		quoted, _ := json.Marshal(string(upstream))
		data = quoted
	}
	writeProxy(w, http.StatusOK, proxyResponse{Success: true, Data: data})
}
