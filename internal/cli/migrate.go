package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbsql/fbsql/internal/db"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Run schema migrations against the configured database.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	RunE:  runMigrateVersion,
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "directory containing migration files")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	fmt.Println("🔄 Running database migrations...")

	entry, err := cfg.Database(dbAlias)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(entry.Engine, database.DB(), migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Println("✅ Migrations applied")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	entry, err := cfg.Database(dbAlias)
	if err != nil {
		return err
	}
	version, dirty, ok, err := db.MigrationVersion(entry.Engine, database.DB(), migrationsDir)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No migrations applied yet.")
		return nil
	}
	if dirty {
		fmt.Printf("Version %d (dirty)\n", version)
		return nil
	}
	fmt.Printf("Version %d\n", version)
	return nil
}
