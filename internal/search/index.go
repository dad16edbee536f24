// Package search ranks a snapshot of notes against a free-text query.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/streed/litewrite/internal/constants"
	"github.com/streed/litewrite/internal/models"
)

// Index is an immutable ranked view over a note snapshot. Build a new one
// whenever the note set changes.
type Index struct {
	notes  []models.Note
	folded []string
}

// Build copies notes into a new index.
func Build(notes []models.Note) *Index {
	idx := &Index{
		notes:  make([]models.Note, len(notes)),
		folded: make([]string, len(notes)),
	}
	copy(idx.notes, notes)
	for i, n := range idx.notes {
		idx.folded[i] = strings.ToLower(n.Content)
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.notes)
}

type hit struct {
	pos   int
	tier  int
	score float64 // lower ranks first
}

// Search returns matching notes best first. Exact substring hits come
// before approximate substring hits, which come before subsequence hits.
// Ties keep snapshot order. A blank query matches nothing.
func (idx *Index) Search(query string) []models.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Note{}
	}

	pattern := []rune(q)
	maxEdits := allowedEdits(len(pattern))

	hits := make([]hit, 0)
	var rest []int
	for i, text := range idx.folded {
		if strings.Contains(text, q) {
			hits = append(hits, hit{pos: i, tier: 0})
			continue
		}
		if maxEdits > 0 {
			if d := substringDistance(pattern, []rune(text)); d <= maxEdits {
				hits = append(hits, hit{pos: i, tier: 1, score: float64(d) / float64(len(pattern))})
				continue
			}
		}
		rest = append(rest, i)
	}

	for _, m := range fuzzy.FindFrom(q, subset{idx: idx, positions: rest}) {
		hits = append(hits, hit{pos: rest[m.Index], tier: 2, score: -float64(m.Score)})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].tier != hits[b].tier {
			return hits[a].tier < hits[b].tier
		}
		if hits[a].score != hits[b].score {
			return hits[a].score < hits[b].score
		}
		return hits[a].pos < hits[b].pos
	})

	out := make([]models.Note, 0, len(hits))
	for _, h := range hits {
		out = append(out, idx.notes[h.pos])
	}
	return out
}

// allowedEdits is the approximate match budget for a query of n runes. At
// least one rune has to match, so single rune queries get no budget.
func allowedEdits(n int) int {
	edits := int(constants.FuzzyThreshold * float64(n))
	if edits < 1 {
		edits = 1
	}
	if edits > n-1 {
		edits = n - 1
	}
	return edits
}

// subset exposes a slice of the index to fuzzy.FindFrom.
type subset struct {
	idx       *Index
	positions []int
}

func (s subset) String(i int) string {
	return s.idx.folded[s.positions[i]]
}

func (s subset) Len() int {
	return len(s.positions)
}
