package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes",
	Long: `Export every note's content.

Formats:
  text  contents separated by blank lines
  json  a JSON list of contents, readable by 'litewrite import'
  yaml  a YAML list of contents`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", export.FormatText, "Output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	notes, err := svc.Notes.List(cmd.Context())
	if err != nil {
		return err
	}

	out, err := export.Render(exportFormat, notes)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	fmt.Printf("Exported %d notes to %s\n", len(notes), exportOutput)
	return nil
}
