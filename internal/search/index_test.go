package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streed/litewrite/internal/models"
)

func contents(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Content)
	}
	return out
}

func snapshot(texts ...string) []models.Note {
	notes := make([]models.Note, 0, len(texts))
	for i, text := range texts {
		notes = append(notes, models.Note{ID: string(rune('a' + i)), Content: text})
	}
	return notes
}

func TestSearchExactAndTypo(t *testing.T) {
	idx := Build(snapshot("Buy milk", "Call mom"))

	assert.Equal(t, []string{"Buy milk"}, contents(idx.Search("milk")))
	assert.Equal(t, []string{"Buy milk"}, contents(idx.Search("mlik")))
	assert.Equal(t, []string{"Buy milk"}, contents(idx.Search("MILK")))
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := Build(snapshot("Buy milk"))

	for _, q := range []string{"", "   ", "\t\n"} {
		got := idx.Search(q)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := Build(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Search("anything"))
}

func TestExactRanksAboveFuzzy(t *testing.T) {
	idx := Build(snapshot(
		"the quick brown fox",
		"quack quack",
		"quick sort",
		"q u i c k",
	))

	got := contents(idx.Search("quick"))
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "the quick brown fox", got[0])
	assert.Equal(t, "quick sort", got[1])
	assert.Equal(t, "quack quack", got[2])
	assert.Contains(t, got, "q u i c k")
	assert.Equal(t, "q u i c k", got[len(got)-1])
}

func TestSearchIsDeterministic(t *testing.T) {
	idx := Build(snapshot("apple pie", "apple tart", "apple"))

	first := contents(idx.Search("apple"))
	assert.Equal(t, []string{"apple pie", "apple tart", "apple"}, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, contents(idx.Search("apple")))
	}
}

func TestBuildCopiesSnapshot(t *testing.T) {
	notes := snapshot("Buy milk")
	idx := Build(notes)
	notes[0].Content = "changed"

	assert.Equal(t, []string{"Buy milk"}, contents(idx.Search("milk")))
	assert.Equal(t, 1, idx.Len())
}

func TestSearchNoMatch(t *testing.T) {
	idx := Build(snapshot("Buy milk", "Call mom"))
	assert.Empty(t, idx.Search("zebra"))
}

func TestSubstringDistance(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    int
	}{
		{"milk", "buy milk", 0},
		{"mlik", "buy milk", 1},
		{"milc", "buy milk", 1},
		{"mik", "buy milk", 1},
		{"milkk", "buy milk", 1},
		{"abc", "", 3},
		{"", "anything", 0},
		{"zzz", "buy milk", 3},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, substringDistance([]rune(tt.pattern), []rune(tt.text)))
		})
	}
}

func TestAllowedEdits(t *testing.T) {
	assert.Equal(t, 0, allowedEdits(1))
	assert.Equal(t, 1, allowedEdits(2))
	assert.Equal(t, 1, allowedEdits(4))
	assert.Equal(t, 2, allowedEdits(5))
	assert.Equal(t, 4, allowedEdits(10))
}
