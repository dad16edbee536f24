package models

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/streed/litewrite/internal/constants"
)

// Note is the persisted record. Notes form an unordered set keyed by ID.
type Note struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch, never mutated
}

// NewNote builds a note stamped with now.
func NewNote(id, content string, now time.Time) Note {
	return Note{
		ID:        id,
		Content:   content,
		CreatedAt: now.UnixMilli(),
	}
}

// NewNotes maps a batch of contents to fresh notes. All notes share the same
// creation time; ids come from gen with the element position as offset.
func NewNotes(contents []string, gen IDGenerator, now time.Time) []Note {
	notes := make([]Note, 0, len(contents))
	for i, content := range contents {
		notes = append(notes, NewNote(gen.Next(now, i), content, now))
	}
	return notes
}

// Created returns the creation timestamp as a time.Time.
func (n Note) Created() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

// Preview returns the first max runes of the content on a single line.
func (n Note) Preview(max int) string {
	preview := strings.ReplaceAll(n.Content, "\n", " ")
	runes := []rune(preview)
	if len(runes) > max {
		return string(runes[:max])
	}
	return preview
}

// SortByCreatedDesc returns a copy of notes, newest first. Notes created
// in the same millisecond keep id order.
func SortByCreatedDesc(notes []Note) []Note {
	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt != sorted[j].CreatedAt {
			return sorted[i].CreatedAt > sorted[j].CreatedAt
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// IsReservedID reports whether id lives in the preference namespace.
func IsReservedID(id string) bool {
	return strings.HasPrefix(id, constants.PreferencePrefix)
}

// IDGenerator assigns ids to notes created in a batch. index is the
// element position inside the batch.
type IDGenerator interface {
	Next(now time.Time, index int) string
}

// TimestampIDs derives ids from the creation time in milliseconds plus the
// batch offset. Not collision-free across processes.
type TimestampIDs struct{}

func (TimestampIDs) Next(now time.Time, index int) string {
	return strconv.FormatInt(now.UnixMilli()+int64(index), 10)
}

// UUIDIDs assigns random v4 UUIDs.
type UUIDIDs struct{}

func (UUIDIDs) Next(time.Time, int) string {
	return uuid.NewString()
}

// NewIDGenerator returns the generator for a configured strategy name.
// Unknown names fall back to timestamps.
func NewIDGenerator(strategy string) IDGenerator {
	if strategy == "uuid" {
		return UUIDIDs{}
	}
	return TimestampIDs{}
}
