package ingest

import (
	"fmt"
	"strings"

	"github.com/streed/litewrite/internal/models"
)

const generatePrompt = `Given the current notes:
%s
Generate a new set of notes about %s. Return only the JSON array of strings, where each string is the content of a note. Do not include any additional text, code blocks, or formatting.`

const parseFilePrompt = `You are given a text file content. Your task is to parse this content into a list of notes, where each note is a separate string. Return only the JSON array of strings, without any additional text, code blocks, or formatting.

Example:
If the text is:
- Note 1
- Note 2
Then, the JSON array should be:
["Note 1", "Note 2"]
If the text has paragraphs, each paragraph should be considered a separate note.

Text:
%s`

const translatePrompt = `Translate the following text into %s. Preserve line breaks and formatting. Return only the translated text, without any additional commentary.

Text:
%s`

// GeneratePrompt asks for a fresh note set about topic given the current notes.
func GeneratePrompt(existing []models.Note, topic string) string {
	contents := make([]string, 0, len(existing))
	for _, n := range existing {
		contents = append(contents, n.Content)
	}
	return fmt.Sprintf(generatePrompt, strings.Join(contents, "\n"), topic)
}

// ParseFilePrompt asks the model to split free text into notes.
func ParseFilePrompt(text string) string {
	return fmt.Sprintf(parseFilePrompt, text)
}

// TranslatePrompt asks for a plain-text translation into lang.
func TranslatePrompt(text, lang string) string {
	return fmt.Sprintf(translatePrompt, lang, text)
}
