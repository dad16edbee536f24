// Package fileimport extracts note text from files on disk.
package fileimport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
)

// Document is the text pulled out of one file. Contents is set when the
// file already holds a list of notes and needs no AI splitting.
type Document struct {
	Name     string
	Text     string
	Contents []string
}

// Extensions lists the file types Parse understands.
var Extensions = []string{".txt", ".md", ".markdown", ".json", ".html", ".htm", ".pdf", ".xlsx"}

// ReadFile loads and parses the file at path.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(filepath.Base(path), data)
}

// Parse extracts text from data, choosing the reader by the extension of name.
func Parse(name string, data []byte) (Document, error) {
	doc := Document{Name: name}
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown":
		doc.Text = string(data)
	case ".json":
		var contents []string
		if json.Unmarshal(data, &contents) == nil {
			doc.Contents = contents
			doc.Text = strings.Join(contents, "\n\n")
			return doc, nil
		}
		doc.Text = string(data)
	case ".html", ".htm":
		doc.Text, err = htmlToMarkdown(string(data))
	case ".pdf":
		doc.Text, err = pdfText(data)
	case ".xlsx":
		doc.Text, err = spreadsheetText(data)
	default:
		return Document{}, fmt.Errorf("%w: %s", interrors.ErrUnsupportedFormat, name)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	doc.Text = strings.TrimSpace(doc.Text)
	logger.Debug("Extracted %d characters from %s", len(doc.Text), name)
	return doc, nil
}

// Expand resolves glob patterns (including **) into file paths in pattern
// order without duplicates. A pattern that matches nothing is kept as a
// literal path so the caller reports it as missing. URLs pass through.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		if IsURL(pattern) {
			if !seen[pattern] {
				seen[pattern] = true
				paths = append(paths, pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func htmlToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)

	drop := func(content string, selection *goquery.Selection, opt *md.Options) *string {
		text := ""
		return &text
	}
	converter.AddRules(
		md.Rule{Filter: []string{"script", "style", "noscript"}, Replacement: drop},
		md.Rule{Filter: []string{"nav", "aside", "footer"}, Replacement: drop},
	)

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}
	return collapseBlankLines(markdown), nil
}

// collapseBlankLines trims every line and squeezes runs of empty lines.
func collapseBlankLines(content string) string {
	lines := strings.Split(content, "\n")
	var cleanLines []string

	previousLineEmpty := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !previousLineEmpty {
				cleanLines = append(cleanLines, "")
				previousLineEmpty = true
			}
			continue
		}
		previousLineEmpty = false
		cleanLines = append(cleanLines, trimmed)
	}

	return strings.TrimSpace(strings.Join(cleanLines, "\n"))
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			logger.Debug("Skipping unreadable PDF page %d: %v", i, err)
			continue
		}
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\x00", "")
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// spreadsheetText renders every non-empty row as one line, cells separated
// by " | ", with a blank line between sheets.
func spreadsheetText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sheets []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Debug("Skipping unreadable sheet %s: %v", sheet, err)
			continue
		}

		var lines []string
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if cell = strings.TrimSpace(strings.ReplaceAll(cell, "\n", " ")); cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
		if len(lines) > 0 {
			sheets = append(sheets, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(sheets, "\n\n"), nil
}
