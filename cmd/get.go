package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <note-id>",
	Short: "Show a note",
	Long:  `Print the full content of a note.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var getJSON bool

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Print the note as JSON")
}

func runGet(cmd *cobra.Command, args []string) error {
	note, err := svc.Notes.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if getJSON {
		data, err := json.MarshalIndent(note, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode note: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("ID: %s\n", note.ID)
	fmt.Printf("Created: %s\n\n", note.Created().Format("2006-01-02 15:04:05"))
	fmt.Println(note.Content)
	return nil
}
