package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-etl/internal/model"
)

func cleanCmd(d model.Domain) *cobra.Command {
	return &cobra.Command{
		Use:   "clean-" + string(d),
		Short: fmt.Sprintf("Clean the raw %s export", d),
		Long: fmt.Sprintf(`Read the raw %s export from the raw data directory, drop invalid and
duplicate rows, and write the cleaned CSV to the processed data directory.`, d),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := commandContext(cmd, false)
			defer stop()

			summary, err := newPipeline(cfg, nil).Clean(ctx, d)
			if err != nil {
				return stageError(err)
			}
			printCleanSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
