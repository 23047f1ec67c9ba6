package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-etl/internal/cli"
	"github.com/Veraticus/spice-etl/internal/common"
	"github.com/Veraticus/spice-etl/internal/config"
	"github.com/Veraticus/spice-etl/internal/loader"
	"github.com/Veraticus/spice-etl/internal/pipeline"
	"github.com/Veraticus/spice-etl/internal/storage"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// openWarehouse connects to the configured warehouse. Schema bootstrap is left to the caller.
func openWarehouse(ctx context.Context, cfg *config.Config) (*storage.Warehouse, error) {
	slog.Debug("Opening warehouse", "driver", cfg.Warehouse.Driver, "warehouse", cfg.Warehouse.Describe())

	wh, err := storage.Open(ctx, storage.Options{
		Driver: cfg.Warehouse.Driver,
		DSN:    cfg.Warehouse.DSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse %s: %w", cfg.Warehouse.Describe(), err)
	}
	return wh, nil
}

// commandContext cancels the command's context on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command, loading bool) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cli.NewInterruptHandler(cmd.ErrOrStderr()).HandleInterrupts(ctx, loading)
}

func newPipeline(cfg *config.Config, progress io.Writer) *pipeline.Pipeline {
	return pipeline.New(cfg,
		pipeline.WithLogger(slog.Default()),
		pipeline.WithProgress(progress),
	)
}

func stageError(err error) error {
	if errors.Is(err, common.ErrMissingInput) {
		return common.NewUserError("Input file not found", err)
	}
	return err
}

func printCleanSummary(w io.Writer, s *pipeline.CleanSummary) {
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Cleaned %s: %d of %d rows kept, saved to %s",
		s.Domain, s.Kept, s.Input, s.Output)))
	if s.DroppedTotal() > 0 || s.Duplicates > 0 {
		fmt.Fprintln(w, cli.FormatSubtle(fmt.Sprintf("  %d invalid, %d duplicates", s.DroppedTotal(), s.Duplicates)))
	}
}

func printLoadSummary(w io.Writer, summaries []loader.Summary, driver string) {
	for _, s := range summaries {
		fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s: %d records, %d inserted, %d skipped",
			s.Domain.FactTable(), s.Records, s.Inserted, s.Skipped)))
		if s.Unresolved > 0 {
			fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("  %d rows with unresolved references", s.Unresolved)))
		}
	}
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("All data loaded into %s warehouse", driver)))
}
