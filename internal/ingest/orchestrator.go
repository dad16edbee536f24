// Package ingest commits AI output and imported text to the note store.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
	"github.com/streed/litewrite/internal/normalize"
)

// Completer sends a prompt to a text generation service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Store is the part of the note store the orchestrator writes through.
type Store interface {
	GetAll(ctx context.Context) ([]models.Note, error)
	ReplaceAll(ctx context.Context, notes []models.Note) error
}

// Result is the note set committed by a successful ingestion.
type Result struct {
	Notes []models.Note `json:"notes"`
}

type Orchestrator struct {
	store Store
	ids   models.IDGenerator
	now   func() time.Time
}

type Option func(*Orchestrator)

func WithIDGenerator(gen models.IDGenerator) Option {
	return func(o *Orchestrator) { o.ids = gen }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(store Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store: store,
		ids:   models.TimestampIDs{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Ingest parses raw model output and replaces the note set with it. Nothing
// is written when parsing fails.
func (o *Orchestrator) Ingest(ctx context.Context, raw string) (Result, error) {
	contents, err := normalize.Parse(raw)
	if err != nil {
		logger.Debug("Rejected AI output: %v", err)
		return Result{}, err
	}
	return o.IngestContents(ctx, contents)
}

// IngestContents replaces the note set with one note per content.
func (o *Orchestrator) IngestContents(ctx context.Context, contents []string) (Result, error) {
	notes := models.NewNotes(contents, o.ids, o.now())
	if err := o.store.ReplaceAll(ctx, notes); err != nil {
		return Result{}, err
	}
	logger.Debug("Ingested %d notes", len(notes))
	return Result{Notes: notes}, nil
}

// Generate asks ai for a new note set about topic and ingests it.
func (o *Orchestrator) Generate(ctx context.Context, ai Completer, topic string) (Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Result{}, fmt.Errorf("%w: topic", interrors.ErrEmptyContent)
	}

	existing, err := o.store.GetAll(ctx)
	if err != nil {
		return Result{}, err
	}

	raw, err := ai.Complete(ctx, GeneratePrompt(existing, topic))
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate notes: %w", err)
	}
	return o.Ingest(ctx, raw)
}

// ImportText asks ai to split text into notes and ingests them.
func (o *Orchestrator) ImportText(ctx context.Context, ai Completer, text string) (Result, error) {
	contents, err := SplitText(ctx, ai, text)
	if err != nil {
		return Result{}, err
	}
	return o.IngestContents(ctx, contents)
}

// SplitText asks ai to split text into note contents without storing them.
func SplitText(ctx context.Context, ai Completer, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, interrors.ErrEmptyContent
	}

	raw, err := ai.Complete(ctx, ParseFilePrompt(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	return normalize.Parse(raw)
}
