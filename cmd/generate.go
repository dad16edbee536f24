package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/export"
	"github.com/streed/litewrite/internal/ingest"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Regenerate all notes with AI",
	Long: `Ask the AI for a fresh set of notes about a topic, taking the existing notes
into account, and replace the whole note set with the answer.

Use --diff to preview the change without storing anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

var (
	generateDiff  bool
	generateForce bool
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&generateDiff, "diff", false, "Show the proposed change as a diff and do not save")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Skip confirmation prompt")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := requireAI(); err != nil {
		return err
	}
	ctx := cmd.Context()
	topic := strings.Join(args, " ")

	if generateDiff {
		current, err := svc.Notes.List(ctx)
		if err != nil {
			return err
		}
		proposed, err := svc.Ingest.Propose(ctx, topic)
		if err != nil {
			return err
		}
		diff := export.Diff(current, proposed)
		if diff == "" {
			fmt.Println("No changes proposed.")
			return nil
		}
		fmt.Print(diff)
		return nil
	}

	if !generateForce && !confirmReplace(ctx) {
		fmt.Println("Generation cancelled.")
		return nil
	}

	fmt.Printf("🤖 Generating notes about: %s\n", topic)
	res, err := svc.Ingest.Generate(ctx, topic)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func printResult(res ingest.Result) {
	fmt.Printf("✓ Replaced all notes with %d new notes.\n\n", len(res.Notes))
	printNotes(res.Notes, true)
}
