package main

import (
	"github.com/spf13/cobra"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load cleaned data into the warehouse",
		Long: `Load every cleaned CSV into the star-schema warehouse. Dimensions are
resolved first and facts already present are skipped, so loading twice is safe.`,
		Args: cobra.NoArgs,
		RunE: runLoad,
	}
}

func runLoad(cmd *cobra.Command, _ []string) error {
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

	summaries, err := newPipeline(cfg, cmd.ErrOrStderr()).Load(ctx, wh)
	if err != nil {
		return stageError(err)
	}
	printLoadSummary(cmd.OutOrStdout(), summaries, wh.Driver())
	return nil
}
