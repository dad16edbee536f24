package export

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/streed/litewrite/internal/models"
)

// Diff renders a unified diff between two note sets, one content block per
// note. Identical sets produce an empty string.
func Diff(before []models.Note, after []string) string {
	a := Text(before)
	b := Text(notesFrom(after))
	if a != "" {
		a += "\n"
	}
	if b != "" {
		b += "\n"
	}
	if a == b {
		return ""
	}

	edits := myers.ComputeEdits(span.URIFromPath("current"), a, b)
	return fmt.Sprint(gotextdiff.ToUnified("current", "proposed", a, edits))
}

func notesFrom(contents []string) []models.Note {
	notes := make([]models.Note, 0, len(contents))
	for _, c := range contents {
		notes = append(notes, models.Note{Content: c})
	}
	return notes
}
