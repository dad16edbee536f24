package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Replace all notes from a raw AI answer",
	Long: `Parse a raw AI answer (a JSON list of strings, optionally inside a markdown
code fence) and replace the whole note set with it.

Reads from the given file, or from stdin when no file is given. Malformed input
leaves the existing notes untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var ingestForce bool

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "Skip confirmation prompt")
}

func runIngest(cmd *cobra.Command, args []string) error {
	var raw string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		raw = string(data)
	} else {
		var err error
		if raw, err = readStdin(); err != nil {
			return err
		}
		// stdin is spent, so there is nobody left to answer a prompt
		ingestForce = true
	}

	if !ingestForce && !confirmReplace(cmd.Context()) {
		fmt.Println("Ingest cancelled.")
		return nil
	}

	res, err := svc.Ingest.Ingest(cmd.Context(), raw)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

// confirmReplace asks before an operation that supersedes every note.
func confirmReplace(ctx context.Context) bool {
	notes, err := svc.Notes.List(ctx)
	if err != nil || len(notes) == 0 {
		return true
	}
	reader := bufio.NewReader(os.Stdin)
	return confirm(reader, fmt.Sprintf("This replaces all %d existing notes. Continue? (y/N): ", len(notes)))
}
