package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-etl/internal/cli"
	"github.com/Veraticus/spice-etl/internal/model"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show warehouse row counts and recent loads",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	cmd.Flags().Int("runs", 10, "Number of recent load runs to show")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("runs")
	if limit <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", limit)
	}

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

	if err := wh.Migrate(ctx); err != nil {
		return err
	}

	counts, err := wh.TableCounts(ctx)
	if err != nil {
		return err
	}
	runs, err := wh.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Warehouse "+cfg.Warehouse.Describe()))
	renderCounts(out, counts)
	if len(runs) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No loads recorded yet"))
		return nil
	}
	fmt.Fprintln(out)
	renderRuns(out, runs)
	return nil
}

func renderCounts(w io.Writer, counts []model.TableCount) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Table", "Rows"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Table, c.Rows})
	}
	t.Render()
}

func renderRuns(w io.Writer, runs []model.RunRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Run", "Domain", "Records", "Inserted", "Skipped", "Unresolved", "Finished"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			shortRunID(r.RunID),
			r.Domain,
			r.Records,
			r.Inserted,
			r.Skipped,
			r.Unresolved,
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
