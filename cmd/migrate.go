package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/streed/litewrite/internal/config"
	"github.com/streed/litewrite/internal/database"
	"github.com/streed/litewrite/internal/migrations"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration management",
	Long: `Manage the SQLite schema.

Migrations run automatically whenever the database is opened, so these commands
are mainly for troubleshooting. They only apply to the sqlite storage backend.`,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of database migrations",
	RunE:  showMigrationStatus,
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "rollback <migration-id>",
	Short: "Revert an applied migration",
	Long: `Revert a single applied migration using its down step.

The next command that opens the database applies it again.`,
	Args: cobra.ExactArgs(1),
	RunE: rollbackMigration,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateRollbackCmd)
}

func openMigrationRunner() (*database.DB, *migrations.Runner, error) {
	if appConfig.StorageBackend != config.BackendSQLite {
		return nil, nil, fmt.Errorf("migrations only apply to the sqlite backend (current: %s)", appConfig.StorageBackend)
	}
	db, err := database.New(appConfig)
	if err != nil {
		return nil, nil, err
	}
	return db, migrations.NewRunner(db.Conn()), nil
}

func showMigrationStatus(cmd *cobra.Command, args []string) error {
	db, runner, err := openMigrationRunner()
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := runner.Status()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "MIGRATION ID\tSTATUS\tDESCRIPTION\n")
	fmt.Fprintf(w, "------------\t------\t-----------\n")

	appliedCount := 0
	for _, migration := range status {
		statusText := "PENDING"
		if migration.Applied {
			statusText = "APPLIED"
			appliedCount++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", migration.ID, statusText, migration.Description)
	}
	w.Flush()

	fmt.Printf("\nDatabase: %s\n", db.Path())
	fmt.Printf("Total migrations: %d\n", len(status))
	fmt.Printf("Applied: %d\n", appliedCount)
	fmt.Printf("Pending: %d\n", len(status)-appliedCount)

	return nil
}

func rollbackMigration(cmd *cobra.Command, args []string) error {
	db, runner, err := openMigrationRunner()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := runner.Rollback(args[0]); err != nil {
		return err
	}
	fmt.Printf("Rolled back migration %s\n", args[0])
	return nil
}
