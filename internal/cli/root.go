package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbsql/fbsql/internal/config"
	"github.com/fbsql/fbsql/internal/db"
	_ "github.com/fbsql/fbsql/internal/db/firebird"
	_ "github.com/fbsql/fbsql/internal/db/sqlite"
	"github.com/fbsql/fbsql/internal/logger"
)

var (
	cfgFile  string
	dbAlias  string
	logLevel string
	cfg      *config.Config
	database db.Database
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fbsql",
	Short: "Firebird database backend toolbox",
	Long: `fbsql connects applications to Firebird through the firebirdsql wire
protocol driver. It translates a settings file into driver connection
arguments and offers schema inspection and migrations on top.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip init for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}
		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'fbsql init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			logger.SetLevel(logger.ParseLogLevel(logLevel))
		} else if cfg.LogLevel != "" {
			logger.SetLevel(logger.ParseLogLevel(cfg.LogLevel))
		}

		entry, err := cfg.Database(dbAlias)
		if err != nil {
			return err
		}
		database, err = db.Open(entry.Settings())
		if err != nil {
			return fmt.Errorf("failed to create database backend: %w", err)
		}
		if err := database.Connect(cmd.Context()); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if database != nil {
			return database.Disconnect(context.Background())
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fbsql/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbAlias, "database", config.DefaultAlias, "database alias from the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warning, error)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(migrateCmd)
}
