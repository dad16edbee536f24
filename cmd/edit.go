package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	interrors "github.com/streed/litewrite/internal/errors"
)

var editCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Edit an existing note",
	Long: `Edit a note in your default editor, or replace its content with --content.

The note keeps its ID and creation time. Saving unchanged content is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var editNewContent string

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editNewContent, "content", "c", "", "Replace the content without opening an editor")
	editCmd.Flags().StringVarP(&editorName, "editor", "e", "", "Specify editor to use (overrides $EDITOR)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	note, err := svc.Notes.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get note %s: %w", args[0], err)
	}

	edited := editNewContent
	if edited == "" {
		edited, err = editText(note.Content)
		if err != nil {
			return fmt.Errorf("failed to edit note: %w", err)
		}
	}

	if strings.TrimSpace(edited) == "" {
		return interrors.ErrEmptyContent
	}
	if edited == note.Content {
		fmt.Println("No changes detected.")
		return nil
	}

	if _, err := svc.Notes.Update(cmd.Context(), note.ID, edited); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	fmt.Println("✓ Note updated successfully")
	change := len([]rune(edited)) - len([]rune(note.Content))
	switch {
	case change > 0:
		fmt.Printf("  Content increased by %d characters\n", change)
	case change < 0:
		fmt.Printf("  Content decreased by %d characters\n", -change)
	default:
		fmt.Println("  Content modified (same length)")
	}

	return nil
}
