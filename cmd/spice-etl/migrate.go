package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-etl/internal/cli"
	"github.com/Veraticus/spice-etl/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the warehouse schema",
		Long: `Initialize or update the warehouse schema to the latest version.

This command creates the dimension, fact and run-log tables. The load
and run commands apply it automatically.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	// Flags
	cmd.Flags().Bool("status", false, "Show current schema version without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	wh, err := openWarehouse(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = wh.Close() }()

	out := cmd.OutOrStdout()
	if status {
		current, err := wh.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Warehouse %s: schema version %d of %d",
			cfg.Warehouse.Describe(), current, storage.ExpectedSchemaVersion)))
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatWarning("Migrations pending, run: spice-etl migrate"))
		}
		return nil
	}

	slog.Info("Running warehouse migrations", "warehouse", cfg.Warehouse.Describe())
	if err := wh.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Warehouse schema is at version %d", storage.ExpectedSchemaVersion)))
	return nil
}
