package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-etl/internal/common"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Clean every export and load the warehouse",
		Long: `Run clean-transactions, clean-sales, clean-inventory and load in order.
The first failing stage stops the run.`,
		Args: cobra.NoArgs,
		RunE: runAll,
	}
}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd, true)
	defer stop()

	wh, err := openWarehouse(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = wh.Close() }()

	summary, err := newPipeline(cfg, cmd.ErrOrStderr()).Run(ctx, wh)
	out := cmd.OutOrStdout()
	for _, cs := range summary.Cleaned {
		printCleanSummary(out, cs)
	}
	if err != nil {
		common.LogError(err, "Pipeline run failed", common.Fields{"run_id": summary.RunID})
		return stageError(err)
	}

	slog.Debug("Run complete", "run_id", summary.RunID)
	printLoadSummary(out, summary.Loaded, wh.Driver())
	return nil
}
