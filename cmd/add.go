package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/logger"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new note",
	Long: `Add a new note.

Content can be provided in several ways:
1. Via --content flag: litewrite add -c "Buy milk"
2. Via stdin: echo "Buy milk" | litewrite add
3. Via editor (default when a terminal is available): litewrite add

Set $EDITOR or use --editor-cmd to specify your preferred editor.`,
	RunE: runAdd,
}

var (
	content    string
	editorName string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&content, "content", "c", "", "Note content")
	addCmd.Flags().StringVar(&editorName, "editor-cmd", "", "Specify editor to use (overrides $EDITOR)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if content == "" {
		var err error
		if isTerminalAvailable() {
			content, err = editText("")
			if err != nil {
				return fmt.Errorf("failed to get content from editor: %w", err)
			}
		} else {
			content, err = readStdin()
			if err != nil {
				return err
			}
		}
	}

	if strings.TrimSpace(content) == "" {
		return interrors.ErrEmptyContent
	}

	note, err := svc.Notes.Create(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	fmt.Printf("Note created successfully!\n")
	fmt.Printf("ID: %s\n", note.ID)
	fmt.Printf("Created: %s\n", note.Created().Format("2006-01-02 15:04:05"))

	return nil
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// editText opens initial in the user's editor and returns the saved text.
func editText(initial string) (string, error) {
	tempFile, err := os.CreateTemp("", "litewrite-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(initial); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	if err := openEditor(tempFile.Name()); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tempFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return strings.TrimSpace(string(edited)), nil
}

// openEditor opens a file in the user's preferred editor
func openEditor(filename string) error {
	editorCmd := editorName
	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	if editorCmd == "" {
		editorCmd = os.Getenv("VISUAL")
	}
	if editorCmd == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editorCmd = e
				break
			}
		}
	}
	if editorCmd == "" {
		return fmt.Errorf("no editor found. Set $EDITOR or use the --editor-cmd flag")
	}

	logger.Debug("Opening file in editor: %s %s", editorCmd, filename)

	// Handle editors that take arguments (e.g., "code --wait")
	parts := strings.Fields(editorCmd)
	cmd := exec.Command(parts[0], append(parts[1:], filename)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCmd, err)
	}

	return nil
}

// isTerminalAvailable checks if we're running in an interactive terminal
func isTerminalAvailable() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
