package main

import (
	"fmt"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/config"
	"github.com/Veraticus/payfilter/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on startup; use this to prepare a database
ahead of time or to check its schema version.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.DatabasePath(viper.GetViper())
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	logger := common.Component("migrate")
	logger.Info("Starting database migration", "database", dbPath, "status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		state := "up to date"
		if current < storage.ExpectedSchemaVersion {
			state = "migrations pending"
		}
		_, err = fmt.Fprintf(out, "%s\n  Database: %s\n  Current version: %d\n  Latest version:  %d (%s)\n",
			cli.FormatTitle("Database Migration Status"),
			dbPath, current, storage.ExpectedSchemaVersion, state)
		return err
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
		"Database migrated to version %d", storage.ExpectedSchemaVersion)))
	return err
}
