package ingest

import (
	"context"
	"fmt"
	"strings"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/normalize"
)

// Translate returns text translated into lang. The store is not touched.
func (o *Orchestrator) Translate(ctx context.Context, ai Completer, text, lang string) (string, error) {
	return Translate(ctx, ai, text, lang)
}

func Translate(ctx context.Context, ai Completer, text, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", interrors.ErrEmptyContent
	}
	if strings.TrimSpace(lang) == "" {
		return "", fmt.Errorf("%w: target language", interrors.ErrEmptyContent)
	}

	out, err := ai.Complete(ctx, TranslatePrompt(text, lang))
	if err != nil {
		return "", fmt.Errorf("failed to translate: %w", err)
	}
	return normalize.StripFences(out), nil
}
