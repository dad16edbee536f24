package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/gemini"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/services"
)

const maxBodyBytes = 10 << 20

type APIServer struct {
	services *services.Services
	server   *http.Server
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewAPIServer(svc *services.Services) *APIServer {
	return &APIServer{services: svc}
}

// Handler builds the routed, CORS-wrapped handler.
func (s *APIServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(logRequests)

	// Forwarding route used by browser clients that must not hold the key
	router.HandleFunc("/api/gemini", s.handleGeminiProxy).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()

	// Notes endpoints
	api.HandleFunc("/notes", s.handleListNotes).Methods("GET")
	api.HandleFunc("/notes", s.handleCreateNote).Methods("POST")
	api.HandleFunc("/notes", s.handleReplaceNotes).Methods("PUT")
	api.HandleFunc("/notes/search", s.handleSearchNotes).Methods("POST")
	api.HandleFunc("/notes/{id}", s.handleGetNote).Methods("GET")
	api.HandleFunc("/notes/{id}", s.handleUpdateNote).Methods("PUT")
	api.HandleFunc("/notes/{id}", s.handleDeleteNote).Methods("DELETE")

	// AI ingestion endpoints
	api.HandleFunc("/ingest", s.handleIngest).Methods("POST")
	api.HandleFunc("/import", s.handleImport).Methods("POST")
	api.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	api.HandleFunc("/translate", s.handleTranslate).Methods("POST")

	api.HandleFunc("/export", s.handleExport).Methods("GET")

	api.HandleFunc("/preferences/{name}", s.handleGetPreference).Methods("GET")
	api.HandleFunc("/preferences/{name}", s.handleSetPreference).Methods("PUT")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	})

	return c.Handler(router)
}

func (s *APIServer) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	writeTimeout := s.services.Config.RequestTimeout() + 30*time.Second
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Starting HTTP API server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *APIServer) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *APIServer) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := APIResponse{
		Success: statusCode < 400,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode JSON response: %v", err)
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := APIResponse{
		Success: false,
		Error:   err.Error(),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode JSON response: %v", err)
	}
}

// writeFailure maps a service error to its HTTP status.
func (s *APIServer) writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		logger.Error("Request failed: %v", err)
	}
	s.writeError(w, status, err)
}

func statusFor(err error) int {
	var statusErr *gemini.StatusError
	switch {
	case errors.Is(err, interrors.ErrMalformedAIOutput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, interrors.ErrReservedID),
		errors.Is(err, interrors.ErrEmptyContent),
		errors.Is(err, interrors.ErrInvalidNoteID),
		errors.Is(err, interrors.ErrInvalidBoolean),
		errors.Is(err, interrors.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, interrors.ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, interrors.ErrTransactionAborted):
		return http.StatusConflict
	case errors.Is(err, interrors.ErrAIUnconfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, interrors.ErrEmptyCompletion), errors.As(err, &statusErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *APIServer) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.LogResponse(r.Method, r.URL.Path, rec.status, time.Since(start).String())
	})
}

// Handlers

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":       "ok",
		"timestamp":    time.Now().Format(time.RFC3339),
		"storage":      s.services.Config.StorageBackend,
		"persistent":   s.services.Store.Available(),
		"ai_available": s.services.Ingest.IsAvailable(),
	}

	// Without storage the API keeps serving with persistence disabled
	if err := s.services.Store.Err(); err != nil {
		health["status"] = "degraded"
		health["storage_error"] = err.Error()
	}

	s.writeJSON(w, http.StatusOK, health)
}
