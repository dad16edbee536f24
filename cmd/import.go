package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/fileimport"
	"github.com/streed/litewrite/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-glob>...",
	Short: "Replace all notes from files",
	Long: `Import notes from one or more files and replace the whole note set with them.

Supported formats: ` + strings.Join(fileimport.Extensions, ", ") + `

A .json file holding a list of strings is taken as is. Other files are split
into notes by the AI, or become one note per file with --no-ai (the default
when no API key is configured).

Glob patterns such as "notes/**/*.md" are expanded. http(s) URLs are rendered
in headless Chrome (Chrome or Chromium must be installed).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var (
	importNoAI  bool
	importForce bool
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importNoAI, "no-ai", false, "Do not split files with AI, one note per file")
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "Skip confirmation prompt")
}

func runImport(cmd *cobra.Command, args []string) error {
	paths, err := fileimport.Expand(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched %s", strings.Join(args, " "))
	}
	logger.Debug("Importing %d files: %v", len(paths), paths)

	useAI := !importNoAI
	if useAI && !svc.Ingest.IsAvailable() {
		fmt.Println("AI is not configured, importing one note per file.")
		useAI = false
	}

	if !importForce && !confirmReplace(cmd.Context()) {
		fmt.Println("Import cancelled.")
		return nil
	}

	fmt.Printf("Importing %d file(s)...\n", len(paths))
	res, err := svc.Ingest.ImportFiles(cmd.Context(), paths, useAI)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}
