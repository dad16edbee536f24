package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/models"
	"github.com/streed/litewrite/internal/store"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type failingStore struct {
	*store.Store
}

func (failingStore) ReplaceAll(context.Context, []models.Note) error {
	return interrors.ErrTransactionAborted
}

var fixedNow = time.UnixMilli(1700000000000)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	backend, err := store.OpenBadgerInMemory()
	require.NoError(t, err)
	s := store.New(backend)
	t.Cleanup(func() { s.Close() })
	return s
}

func newOrchestrator(s Store) *Orchestrator {
	return New(s, WithClock(func() time.Time { return fixedNow }))
}

func TestIngestFencedOutput(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, models.NewNote("old", "stale", fixedNow)))

	res, err := newOrchestrator(s).Ingest(ctx, "```json\n[\"Buy milk\",\"Call mom\"]\n```")
	require.NoError(t, err)

	require.Len(t, res.Notes, 2)
	assert.Equal(t, "1700000000000", res.Notes[0].ID)
	assert.Equal(t, "1700000000001", res.Notes[1].ID)
	for _, n := range res.Notes {
		assert.Equal(t, fixedNow.UnixMilli(), n.CreatedAt)
	}

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, res.Notes, all)
}

func TestIngestMalformedLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	prior := models.NewNote("keep", "unchanged", fixedNow)
	require.NoError(t, s.Save(ctx, prior))

	_, err := newOrchestrator(s).Ingest(ctx, "not json at all")
	assert.ErrorIs(t, err, interrors.ErrMalformedAIOutput)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Note{prior}, all)
}

func TestIngestEmptyArrayClears(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, models.NewNote("1", "x", fixedNow)))

	res, err := newOrchestrator(s).Ingest(ctx, "[]")
	require.NoError(t, err)
	assert.Empty(t, res.Notes)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIngestStoreFailure(t *testing.T) {
	_, err := newOrchestrator(failingStore{}).Ingest(context.Background(), `["a"]`)
	assert.ErrorIs(t, err, interrors.ErrTransactionAborted)
}

func TestIngestWithUUIDs(t *testing.T) {
	s := newStore(t)
	o := New(s, WithIDGenerator(models.UUIDIDs{}))

	res, err := o.IngestContents(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, res.Notes, 2)
	assert.NotEqual(t, res.Notes[0].ID, res.Notes[1].ID)
	assert.Len(t, res.Notes[0].ID, 36)
}

func TestGenerateIncludesExistingNotes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, models.NewNote("1", "Existing idea", fixedNow)))

	ai := &fakeCompleter{response: `["Fresh idea"]`}
	res, err := newOrchestrator(s).Generate(ctx, ai, "gardening")
	require.NoError(t, err)

	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "Given the current notes:\nExisting idea\n")
	assert.Contains(t, ai.prompts[0], "Generate a new set of notes about gardening.")
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "Fresh idea", res.Notes[0].Content)
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	o := newOrchestrator(s)

	_, err := o.Generate(ctx, &fakeCompleter{}, "  ")
	assert.ErrorIs(t, err, interrors.ErrEmptyContent)

	_, err = o.Generate(ctx, &fakeCompleter{err: interrors.ErrRateLimited}, "topic")
	assert.ErrorIs(t, err, interrors.ErrRateLimited)

	_, err = o.Generate(ctx, &fakeCompleter{response: "Sure! Here are notes."}, "topic")
	assert.ErrorIs(t, err, interrors.ErrMalformedAIOutput)
}

func TestImportText(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	ai := &fakeCompleter{response: `["Note 1","Note 2"]`}

	res, err := newOrchestrator(s).ImportText(ctx, ai, "- Note 1\n- Note 2")
	require.NoError(t, err)
	assert.Len(t, res.Notes, 2)
	assert.True(t, strings.HasSuffix(ai.prompts[0], "Text:\n- Note 1\n- Note 2"))

	_, err = newOrchestrator(s).ImportText(ctx, ai, "   ")
	assert.ErrorIs(t, err, interrors.ErrEmptyContent)
}

func TestTranslate(t *testing.T) {
	ai := &fakeCompleter{response: "Bonjour\n"}
	o := newOrchestrator(newStore(t))

	out, err := o.Translate(context.Background(), ai, "Hello", "French")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Contains(t, ai.prompts[0], "into French")

	_, err = o.Translate(context.Background(), ai, "Hello", "")
	assert.ErrorIs(t, err, interrors.ErrEmptyContent)

	_, err = o.Translate(context.Background(), &fakeCompleter{err: errors.New("down")}, "Hello", "French")
	assert.ErrorContains(t, err, "failed to translate")
}

func TestPrompts(t *testing.T) {
	notes := []models.Note{{Content: "a"}, {Content: "b"}}
	assert.Equal(t,
		"Given the current notes:\na\nb\nGenerate a new set of notes about cats. Return only the JSON array of strings, where each string is the content of a note. Do not include any additional text, code blocks, or formatting.",
		GeneratePrompt(notes, "cats"))
	assert.Contains(t, ParseFilePrompt("body"), "[\"Note 1\", \"Note 2\"]")
}
