package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes",
	Long: `Search notes with typo-tolerant matching.

Exact substring matches come first, then near matches within a few edits
(so "mlik" finds "Buy milk"), then notes containing the query letters in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchLimit int
	searchShort bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10, "Maximum number of results (0 for all)")
	searchCmd.Flags().BoolVarP(&searchShort, "short", "s", false, "Show only ID and a short preview")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	notes, err := svc.Search.SearchNotes(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(notes) == 0 {
		fmt.Println("No matching notes found.")
		return nil
	}

	fmt.Printf("Found %d matching notes for: %s\n\n", len(notes), query)
	printNotes(notes, searchShort)
	return nil
}
