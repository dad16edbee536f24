package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streed/litewrite/internal/config"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/fileimport"
	"github.com/streed/litewrite/internal/gemini"
	"github.com/streed/litewrite/internal/ingest"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
	"github.com/streed/litewrite/internal/normalize"
	"github.com/streed/litewrite/internal/preferences"
	"github.com/streed/litewrite/internal/search"
	"github.com/streed/litewrite/internal/store"
)

// Services contains all the service dependencies
type Services struct {
	Config      *config.Config
	Store       *store.Store
	Notes       *NotesService
	Search      *SearchService
	Ingest      *IngestService
	Preferences *PreferencesService
	AI          *gemini.Client
}

type Option func(*options)

type options struct {
	ids   models.IDGenerator
	now   func() time.Time
	ai    ingest.Completer
	setAI bool
}

// WithIDGenerator overrides the configured id strategy.
func WithIDGenerator(gen models.IDGenerator) Option {
	return func(o *options) { o.ids = gen }
}

// WithClock overrides time.Now for new notes.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCompleter replaces the Gemini client used for generation. A nil
// completer disables AI features.
func WithCompleter(ai ingest.Completer) Option {
	return func(o *options) {
		o.ai = ai
		o.setAI = true
	}
}

// NewServices creates a new services container
func NewServices(cfg *config.Config, st *store.Store, opts ...Option) *Services {
	o := options{
		ids: models.NewIDGenerator(cfg.IDStrategy),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	prefsRepo := preferences.NewPreferencesRepository(st)
	searchService := NewSearchService(st)

	var client *gemini.Client
	if cfg.HasAI() {
		client = gemini.New(cfg.GetGeminiURL(), cfg.GeminiAPIKey,
			gemini.WithTimeout(cfg.RequestTimeout()),
			gemini.WithDeviceID(prefsRepo.DeviceID))
	}
	completer := o.ai
	if !o.setAI && client != nil {
		completer = client
	}

	orchestrator := ingest.New(st,
		ingest.WithIDGenerator(o.ids),
		ingest.WithClock(o.now))

	return &Services{
		Config:      cfg,
		Store:       st,
		Notes:       NewNotesService(st, searchService, o.ids, o.now),
		Search:      searchService,
		Ingest:      NewIngestService(st, orchestrator, completer, searchService),
		Preferences: NewPreferencesService(prefsRepo),
		AI:          client,
	}
}

// Close releases the store
func (s *Services) Close() error {
	return s.Store.Close()
}

// NotesService handles note operations
type NotesService struct {
	store  *store.Store
	search *SearchService
	ids    models.IDGenerator
	now    func() time.Time

	// createMu keeps the free-id lookup and the write of Create together.
	createMu sync.Mutex
}

// maxIDAttempts bounds how far Create walks past taken timestamp ids.
const maxIDAttempts = 10000

func NewNotesService(st *store.Store, search *SearchService, ids models.IDGenerator, now func() time.Time) *NotesService {
	return &NotesService{store: st, search: search, ids: ids, now: now}
}

func (s *NotesService) List(ctx context.Context) ([]models.Note, error) {
	return s.store.GetAll(ctx)
}

func (s *NotesService) Get(ctx context.Context, id string) (models.Note, error) {
	note, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	if !ok {
		return models.Note{}, fmt.Errorf("%w: %s", interrors.ErrNoteNotFound, id)
	}
	return note, nil
}

// Create stores a new note under the first generated id not already in use,
// so it never overwrites a note from an earlier batch.
func (s *NotesService) Create(ctx context.Context, content string) (models.Note, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	now := s.now()
	id, err := s.freeID(ctx, now)
	if err != nil {
		return models.Note{}, err
	}
	note := models.NewNote(id, content, now)
	if err := s.Save(ctx, note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *NotesService) freeID(ctx context.Context, now time.Time) (string, error) {
	for offset := 0; offset < maxIDAttempts; offset++ {
		id := s.ids.Next(now, offset)
		_, taken, err := s.store.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no free id after %d attempts", interrors.ErrInvalidNoteID, maxIDAttempts)
}

// Update replaces the content of an existing note, keeping its timestamp.
func (s *NotesService) Update(ctx context.Context, id, content string) (models.Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	note.Content = content
	if err := s.Save(ctx, note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Save upserts a complete note. A missing timestamp is set to now.
func (s *NotesService) Save(ctx context.Context, note models.Note) error {
	if note.CreatedAt == 0 {
		note.CreatedAt = s.now().UnixMilli()
	}
	if err := s.store.Save(ctx, note); err != nil {
		return err
	}
	s.search.Invalidate()
	return nil
}

func (s *NotesService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.search.Invalidate()
	return nil
}

// ReplaceAll swaps the whole note set and returns the notes as stored.
func (s *NotesService) ReplaceAll(ctx context.Context, notes []models.Note) ([]models.Note, error) {
	now := s.now().UnixMilli()
	stamped := make([]models.Note, len(notes))
	copy(stamped, notes)
	for i := range stamped {
		if stamped[i].CreatedAt == 0 {
			stamped[i].CreatedAt = now
		}
	}
	if err := s.store.ReplaceAll(ctx, stamped); err != nil {
		return nil, err
	}
	s.search.Invalidate()
	return stamped, nil
}

// SearchService keeps a search index over the current note set and rebuilds
// it after writes.
type SearchService struct {
	store *store.Store

	mu    sync.Mutex
	index *search.Index
}

func NewSearchService(st *store.Store) *SearchService {
	return &SearchService{store: st}
}

// Invalidate drops the cached index.
func (s *SearchService) Invalidate() {
	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()
}

// Index returns the current index, building it if needed.
func (s *SearchService) Index(ctx context.Context) (*search.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index, nil
	}
	notes, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.index = search.Build(notes)
	logger.Debug("Rebuilt search index over %d notes", s.index.Len())
	return s.index, nil
}

// SearchNotes returns up to limit matches; limit <= 0 means all.
func (s *SearchService) SearchNotes(ctx context.Context, query string, limit int) ([]models.Note, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	results := idx.Search(query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// IngestService runs AI driven bulk operations.
type IngestService struct {
	store        *store.Store
	orchestrator *ingest.Orchestrator
	ai           ingest.Completer
	search       *SearchService
}

func NewIngestService(st *store.Store, orchestrator *ingest.Orchestrator, ai ingest.Completer, search *SearchService) *IngestService {
	return &IngestService{store: st, orchestrator: orchestrator, ai: ai, search: search}
}

// IsAvailable reports whether an AI completer is configured.
func (s *IngestService) IsAvailable() bool {
	return s.ai != nil
}

func (s *IngestService) completer() (ingest.Completer, error) {
	if s.ai == nil {
		return nil, interrors.ErrAIUnconfigured
	}
	return s.ai, nil
}

func (s *IngestService) done(res ingest.Result, err error) (ingest.Result, error) {
	if err != nil {
		return ingest.Result{}, err
	}
	s.search.Invalidate()
	return res, nil
}

// Ingest replaces the note set with parsed AI output.
func (s *IngestService) Ingest(ctx context.Context, raw string) (ingest.Result, error) {
	return s.done(s.orchestrator.Ingest(ctx, raw))
}

// IngestContents replaces the note set with one note per content.
func (s *IngestService) IngestContents(ctx context.Context, contents []string) (ingest.Result, error) {
	return s.done(s.orchestrator.IngestContents(ctx, contents))
}

// Generate asks the AI for a new note set about topic.
func (s *IngestService) Generate(ctx context.Context, topic string) (ingest.Result, error) {
	ai, err := s.completer()
	if err != nil {
		return ingest.Result{}, err
	}
	return s.done(s.orchestrator.Generate(ctx, ai, topic))
}

// Propose returns the contents Generate would store, without storing them.
func (s *IngestService) Propose(ctx context.Context, topic string) ([]string, error) {
	ai, err := s.completer()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic", interrors.ErrEmptyContent)
	}
	existing, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := ai.Complete(ctx, ingest.GeneratePrompt(existing, topic))
	if err != nil {
		return nil, fmt.Errorf("failed to generate notes: %w", err)
	}
	return normalize.Parse(raw)
}

// ImportText splits text into notes with the AI and stores them.
func (s *IngestService) ImportText(ctx context.Context, text string) (ingest.Result, error) {
	ai, err := s.completer()
	if err != nil {
		return ingest.Result{}, err
	}
	return s.done(s.orchestrator.ImportText(ctx, ai, text))
}

// ImportFiles reads every file or web page and replaces the note set with
// their notes. Files holding a JSON list are taken as is. Other sources are
// split by the AI, or become one note each when useAI is false.
func (s *IngestService) ImportFiles(ctx context.Context, paths []string, useAI bool) (ingest.Result, error) {
	var ai ingest.Completer
	if useAI {
		var err error
		if ai, err = s.completer(); err != nil {
			return ingest.Result{}, err
		}
	}

	var contents []string
	for _, path := range paths {
		doc, err := fileimport.Read(ctx, path)
		if err != nil {
			return ingest.Result{}, err
		}

		switch {
		case doc.Contents != nil:
			contents = append(contents, doc.Contents...)
		case doc.Text == "":
			logger.Debug("Skipping empty file %s", path)
		case ai != nil:
			parts, err := ingest.SplitText(ctx, ai, doc.Text)
			if err != nil {
				return ingest.Result{}, fmt.Errorf("%s: %w", path, err)
			}
			contents = append(contents, parts...)
		default:
			contents = append(contents, doc.Text)
		}
	}

	// An import that found nothing must not clear the notes.
	if len(contents) == 0 {
		return ingest.Result{}, fmt.Errorf("%w: no content found in %d source(s)", interrors.ErrEmptyContent, len(paths))
	}
	return s.IngestContents(ctx, contents)
}

// Translate returns text in lang without touching the store.
func (s *IngestService) Translate(ctx context.Context, text, lang string) (string, error) {
	ai, err := s.completer()
	if err != nil {
		return "", err
	}
	return s.orchestrator.Translate(ctx, ai, text, lang)
}

// PreferencesService handles user preferences
type PreferencesService struct {
	repo *preferences.PreferencesRepository
}

func NewPreferencesService(repo *preferences.PreferencesRepository) *PreferencesService {
	return &PreferencesService{repo: repo}
}

func (s *PreferencesService) Get(ctx context.Context, key string) (string, bool, error) {
	return s.repo.Get(ctx, key)
}

func (s *PreferencesService) GetString(ctx context.Context, key, defaultValue string) string {
	return s.repo.GetString(ctx, key, defaultValue)
}

func (s *PreferencesService) SetString(ctx context.Context, key, value string) error {
	return s.repo.SetString(ctx, key, value)
}

func (s *PreferencesService) GetBool(ctx context.Context, key string, defaultValue bool) bool {
	return s.repo.GetBool(ctx, key, defaultValue)
}

func (s *PreferencesService) SetBool(ctx context.Context, key string, value bool) error {
	return s.repo.SetBool(ctx, key, value)
}

func (s *PreferencesService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *PreferencesService) DeviceID(ctx context.Context) string {
	return s.repo.DeviceID(ctx)
}
