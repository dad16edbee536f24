// Package export renders the note set for download.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/models"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported export formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

func contents(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Content)
	}
	return out
}

// Text joins note contents with blank lines.
func Text(notes []models.Note) string {
	return strings.Join(contents(notes), "\n\n")
}

// JSON renders the contents as an indented array of strings.
func JSON(notes []models.Note) (string, error) {
	data, err := json.MarshalIndent(contents(notes), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// YAML renders the contents as a YAML sequence.
func YAML(notes []models.Note) (string, error) {
	data, err := yaml.Marshal(contents(notes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render dispatches on format name.
func Render(format string, notes []models.Note) (string, error) {
	switch strings.ToLower(format) {
	case FormatText, "txt", "":
		return Text(notes), nil
	case FormatJSON:
		return JSON(notes)
	case FormatYAML, "yml":
		return YAML(notes)
	}
	return "", fmt.Errorf("%w: %s", interrors.ErrUnsupportedFormat, format)
}

// ContentType returns the MIME type and file extension for format.
func ContentType(format string) (string, string) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return "application/json", "json"
	case FormatYAML, "yml":
		return "application/yaml", "yaml"
	}
	return "text/plain; charset=utf-8", "txt"
}
