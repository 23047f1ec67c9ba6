package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Tables lists every warehouse table in load order.
var Tables = []string{
	"dim_date",
	"dim_account",
	"dim_vendor",
	"dim_category",
	"dim_customer",
	"dim_product",
	"fact_transactions",
	"fact_sales_funnel",
	"fact_inventory_moves",
	"etl_runs",
}

// RecordRun appends one etl_runs row.
func (w *Warehouse) RecordRun(ctx context.Context, run model.RunRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(run.RunID, "run_id"); err != nil {
		return err
	}

	return w.inTx(ctx, "insert", "etl_runs", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO etl_runs (
			run_id, domain, source_file, records, inserted, skipped, unresolved, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, string(run.Domain), run.SourceFile, run.Records, run.Inserted, run.Skipped,
			run.Unresolved, formatTimestamp(run.StartedAt), formatTimestamp(run.FinishedAt))
		return err
	})
}

// RecentRuns returns up to limit etl_runs rows, newest first.
func (w *Warehouse) RecentRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	var rows []struct {
		StartedAt  dbTimestamp `db:"started_at"`
		FinishedAt dbTimestamp `db:"finished_at"`
		RunID      string      `db:"run_id"`
		Domain     string      `db:"domain"`
		SourceFile string      `db:"source_file"`
		Records    int         `db:"records"`
		Inserted   int64       `db:"inserted"`
		Skipped    int64       `db:"skipped"`
		Unresolved int         `db:"unresolved"`
	}
	err := w.db.SelectContext(ctx, &rows, `SELECT run_id, domain, source_file, records, inserted,
		skipped, unresolved, started_at, finished_at
		FROM etl_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	runs := make([]model.RunRecord, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, model.RunRecord{
			RunID:      r.RunID,
			Domain:     model.Domain(r.Domain),
			SourceFile: r.SourceFile,
			Records:    r.Records,
			Inserted:   r.Inserted,
			Skipped:    r.Skipped,
			Unresolved: r.Unresolved,
			StartedAt:  r.StartedAt.Time,
			FinishedAt: r.FinishedAt.Time,
		})
	}
	return runs, nil
}

// TableCounts returns the row count of every warehouse table.
func (w *Warehouse) TableCounts(ctx context.Context) ([]model.TableCount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	counts := make([]model.TableCount, 0, len(Tables))
	for _, table := range Tables {
		var n int64
		// #nosec G201 - table names come from the fixed Tables list
		if err := w.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, model.TableCount{Table: table, Rows: n})
	}
	return counts, nil
}
