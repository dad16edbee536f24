package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/constants"
	"github.com/streed/litewrite/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Long:  `List notes newest first with their ID, creation date and a preview.`,
	RunE:  runList,
}

var (
	listLimit  int
	listOffset int
	listShort  bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", constants.DefaultListLimit, "Maximum number of notes to display (0 for all)")
	listCmd.Flags().IntVarP(&listOffset, "offset", "o", 0, "Number of notes to skip")
	listCmd.Flags().BoolVarP(&listShort, "short", "s", false, "Show only ID and a short preview")
}

func runList(cmd *cobra.Command, args []string) error {
	notes, err := svc.Notes.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	notes = paginate(models.SortByCreatedDesc(notes), listOffset, listLimit)
	if len(notes) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	fmt.Printf("Found %d notes:\n\n", len(notes))
	printNotes(notes, listShort)
	return nil
}

func paginate(notes []models.Note, offset, limit int) []models.Note {
	if offset >= len(notes) {
		return nil
	}
	if offset > 0 {
		notes = notes[offset:]
	}
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes
}

func printNotes(notes []models.Note, short bool) {
	for _, note := range notes {
		if short {
			fmt.Printf("[%s] %s\n", note.ID, note.Preview(constants.ShortPreviewLength*3))
			continue
		}
		fmt.Printf("ID: %s\n", note.ID)
		fmt.Printf("Created: %s\n", formatTime(note.Created()))

		preview := note.Preview(constants.PreviewLength)
		if len([]rune(note.Content)) > constants.PreviewLength {
			preview += "..."
		}
		fmt.Printf("Preview: %s\n", preview)
		fmt.Println(strings.Repeat("-", 60))
	}
}

func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}
