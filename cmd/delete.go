package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/constants"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
	"github.com/streed/litewrite/internal/models"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [note IDs...]",
	Short: "Delete one or more notes",
	Long: `Delete notes by their IDs.

By default, you will be prompted for confirmation before deletion.
Use --force to skip the confirmation prompt.
Use --all to delete all notes (no IDs required). Preferences are kept.`,
	Args:    validateDeleteArgs,
	Aliases: []string{"rm", "remove"},
	RunE:    runDelete,
}

var (
	forceDelete bool
	deleteAll   bool
)

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete all notes (use with caution!)")
}

// validateDeleteArgs ensures proper arguments are provided
func validateDeleteArgs(cmd *cobra.Command, args []string) error {
	allFlag, _ := cmd.Flags().GetBool("all")

	if allFlag {
		if len(args) > 0 {
			return fmt.Errorf("cannot specify note IDs when using --all flag")
		}
		return nil
	}

	if len(args) < 1 {
		return fmt.Errorf("requires at least one note ID (or use --all to delete all notes)")
	}

	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reader := bufio.NewReader(os.Stdin)

	if deleteAll {
		return deleteAllNotes(cmd, reader)
	}

	var toDelete []models.Note
	for _, id := range args {
		note, err := svc.Notes.Get(ctx, id)
		if errors.Is(err, interrors.ErrNoteNotFound) {
			fmt.Printf("Warning: Note with ID %s not found\n", id)
			continue
		}
		if err != nil {
			return err
		}
		toDelete = append(toDelete, note)
	}

	if len(toDelete) == 0 {
		fmt.Println("No valid notes to delete.")
		return nil
	}

	fmt.Println("The following notes will be deleted:")
	fmt.Println(strings.Repeat("-", 60))
	for _, note := range toDelete {
		fmt.Printf("  [%s] %s\n", note.ID, note.Preview(constants.ShortPreviewLength*3))
	}
	fmt.Println(strings.Repeat("-", 60))

	if !forceDelete {
		prompt := "Are you sure you want to delete this note? (y/N): "
		if len(toDelete) > 1 {
			prompt = fmt.Sprintf("Are you sure you want to delete %d notes? (y/N): ", len(toDelete))
		}
		if !confirm(reader, prompt) {
			fmt.Println("Deletion cancelled.")
			return nil
		}
	}

	successCount := 0
	failCount := 0
	for _, note := range toDelete {
		if err := svc.Notes.Delete(ctx, note.ID); err != nil {
			logger.Error("Failed to delete note %s: %v", note.ID, err)
			fmt.Printf("✗ Failed to delete note %s: %v\n", note.ID, err)
			failCount++
			continue
		}
		fmt.Printf("✓ Deleted note %s\n", note.ID)
		successCount++
	}

	fmt.Println(strings.Repeat("=", 60))
	if failCount == 0 {
		fmt.Printf("Successfully deleted %d note(s).\n", successCount)
	} else {
		fmt.Printf("Deleted %d note(s), failed to delete %d note(s).\n", successCount, failCount)
	}

	return nil
}

func deleteAllNotes(cmd *cobra.Command, reader *bufio.Reader) error {
	notes, err := svc.Notes.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get notes: %w", err)
	}

	noteCount := len(notes)
	if noteCount == 0 {
		fmt.Println("No notes to delete.")
		return nil
	}

	fmt.Printf("⚠️  WARNING: This will delete ALL %d notes!\n", noteCount)
	fmt.Println("This action cannot be undone.")
	fmt.Println(strings.Repeat("=", 60))

	if !forceDelete {
		fmt.Printf("Type 'DELETE ALL %d NOTES' to confirm: ", noteCount)
		response, _ := reader.ReadString('\n')
		if strings.TrimSpace(response) != fmt.Sprintf("DELETE ALL %d NOTES", noteCount) {
			fmt.Println("Confirmation text did not match. Deletion cancelled.")
			return nil
		}
	}

	// One transaction: either every note goes or none does.
	if _, err := svc.Notes.ReplaceAll(cmd.Context(), nil); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}

	fmt.Printf("Successfully deleted all %d notes.\n", noteCount)
	return nil
}
