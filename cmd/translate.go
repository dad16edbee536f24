package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	interrors "github.com/streed/litewrite/internal/errors"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text with AI",
	Long: `Translate text into another language. Notes are not changed.

The text is taken from the arguments, from a note with --note, or from stdin.`,
	RunE: runTranslate,
}

var (
	translateLanguage string
	translateNoteID   string
)

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVarP(&translateLanguage, "language", "L", "English", "Target language")
	translateCmd.Flags().StringVarP(&translateNoteID, "note", "n", "", "Translate the content of this note")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if err := requireAI(); err != nil {
		return err
	}
	ctx := cmd.Context()

	var text string
	switch {
	case translateNoteID != "":
		note, err := svc.Notes.Get(ctx, translateNoteID)
		if err != nil {
			return err
		}
		text = note.Content
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		var err error
		if text, err = readStdin(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		return interrors.ErrEmptyContent
	}

	out, err := svc.Ingest.Translate(ctx, text, translateLanguage)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
