package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration. Statements may use the {{pk}}, {{fk}},
// {{key}}, {{text}}, {{real}}, {{bool}} and {{timestamp}} type placeholders. {{key}} columns
// hold natural keys of at most model.MaxKeyLength characters.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Dimension tables",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS dim_date (
				date_id {{pk}},
				full_date DATE NOT NULL UNIQUE,
				year_num INTEGER NOT NULL,
				month_num INTEGER NOT NULL,
				day_num INTEGER NOT NULL,
				month_name VARCHAR(16) NOT NULL,
				yearmonth VARCHAR(7) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS dim_account (
				account_id {{pk}},
				account_name {{key}} NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS dim_vendor (
				vendor_id {{pk}},
				vendor_name {{key}} NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS dim_category (
				category_id {{pk}},
				category_name {{key}} NOT NULL UNIQUE,
				category_type VARCHAR(16)
			)`,
			// A missing region is stored as '' so the unique key sees it.
			`CREATE TABLE IF NOT EXISTS dim_customer (
				customer_id {{pk}},
				customer_name {{key}} NOT NULL,
				region {{key}} NOT NULL DEFAULT '',
				UNIQUE (customer_name, region)
			)`,
			`CREATE TABLE IF NOT EXISTS dim_product (
				product_id {{pk}},
				product_name {{key}} NOT NULL UNIQUE,
				product_category {{text}},
				unit_price {{real}}
			)`,
		},
	},
	{
		Version:     2,
		Description: "Fact tables",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS fact_transactions (
				txn_id {{key}} PRIMARY KEY,
				date_id {{fk}},
				account_id {{fk}},
				category_id {{fk}},
				vendor_id {{fk}},
				description {{text}},
				amount {{real}},
				txn_type VARCHAR(32),
				payment_method {{text}},
				is_recurring {{bool}} NOT NULL DEFAULT 0,
				FOREIGN KEY (date_id) REFERENCES dim_date(date_id),
				FOREIGN KEY (account_id) REFERENCES dim_account(account_id),
				FOREIGN KEY (category_id) REFERENCES dim_category(category_id),
				FOREIGN KEY (vendor_id) REFERENCES dim_vendor(vendor_id)
			)`,
			`CREATE TABLE IF NOT EXISTS fact_sales_funnel (
				lead_id {{key}} PRIMARY KEY,
				customer_id {{fk}},
				source {{text}},
				stage VARCHAR(16) NOT NULL,
				stage_date DATE,
				expected_value {{real}},
				actual_value {{real}},
				sales_rep {{text}},
				FOREIGN KEY (customer_id) REFERENCES dim_customer(customer_id)
			)`,
			`CREATE INDEX idx_fact_sales_funnel_stage ON fact_sales_funnel(stage)`,
			`CREATE TABLE IF NOT EXISTS fact_inventory_moves (
				move_id {{key}} PRIMARY KEY,
				product_id {{fk}},
				date_id {{fk}},
				quantity {{real}} NOT NULL,
				move_type VARCHAR(3) NOT NULL,
				unit_price {{real}},
				warehouse {{text}},
				FOREIGN KEY (product_id) REFERENCES dim_product(product_id),
				FOREIGN KEY (date_id) REFERENCES dim_date(date_id)
			)`,
		},
	},
	{
		Version:     3,
		Description: "Load audit log",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS etl_runs (
				id {{pk}},
				run_id VARCHAR(36) NOT NULL,
				domain VARCHAR(32) NOT NULL,
				source_file TEXT NOT NULL,
				records INTEGER NOT NULL,
				inserted INTEGER NOT NULL,
				skipped INTEGER NOT NULL,
				unresolved INTEGER NOT NULL,
				started_at {{timestamp}} NOT NULL,
				finished_at {{timestamp}} NOT NULL
			)`,
			`CREATE INDEX idx_etl_runs_run_id ON etl_runs(run_id)`,
		},
	},
}

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description {{key}} NOT NULL,
	applied_at {{timestamp}} NOT NULL
)`

// Migrate applies all pending database migrations. On SQLite each migration commits together
// with its version row. MySQL commits DDL implicitly, so a failed MySQL migration can leave
// some of its tables behind.
func (w *Warehouse) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := w.db.ExecContext(ctx, w.dialect.render(createSchemaMigrations)); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	currentVersion, err := w.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := w.applyMigration(ctx, migration); err != nil {
			return err
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	finalVersion, err := w.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

func (w *Warehouse) applyMigration(ctx context.Context, m Migration) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := execAll(ctx, tx, w.dialect, m.Statements); err != nil {
		return fmt.Errorf("migration %d failed: %w", m.Version, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
		m.Version, m.Description, formatTimestamp(time.Now())); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

func execAll(ctx context.Context, tx *sqlx.Tx, d dialect, statements []string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, d.render(stmt)); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration, or 0 for an empty warehouse.
func (w *Warehouse) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var tables int
	if err := w.db.GetContext(ctx, &tables, w.dialect.tableExists, "schema_migrations"); err != nil {
		return 0, fmt.Errorf("failed to check for schema_migrations: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}

	var version int
	if err := w.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
