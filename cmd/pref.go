package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prefCmd = &cobra.Command{
	Use:   "pref",
	Short: "Manage stored preferences",
	Long: `Read and write preferences kept alongside the notes, such as font and theme.

Preferences survive note regeneration and imports.`,
}

var prefGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefGet,
}

var prefSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefSet,
}

var prefDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefDelete,
}

func init() {
	rootCmd.AddCommand(prefCmd)
	prefCmd.AddCommand(prefGetCmd)
	prefCmd.AddCommand(prefSetCmd)
	prefCmd.AddCommand(prefDeleteCmd)
}

func runPrefGet(cmd *cobra.Command, args []string) error {
	value, ok, err := svc.Preferences.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s is not set\n", args[0])
		return nil
	}
	fmt.Println(value)
	return nil
}

func runPrefSet(cmd *cobra.Command, args []string) error {
	if !svc.Store.Available() {
		fmt.Println("Warning: storage is unavailable, the preference will not be kept.")
	}
	if err := svc.Preferences.SetString(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Preference updated: %s = %s\n", args[0], args[1])
	return nil
}

func runPrefDelete(cmd *cobra.Command, args []string) error {
	if err := svc.Preferences.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Preference removed: %s\n", args[0])
	return nil
}
