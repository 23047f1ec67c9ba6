// Package service defines the interfaces shared by the pipeline stages and the CLI.
package service

import (
	"context"

	"github.com/Veraticus/spice-etl/internal/loader"
	"github.com/Veraticus/spice-etl/internal/model"
)

// Warehouse defines the contract for the star-schema persistence layer.
type Warehouse interface {
	// Dimension resolution and fact inserts
	loader.Store

	// Run audit
	RecordRun(ctx context.Context, run model.RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	TableCounts(ctx context.Context) ([]model.TableCount, error)

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Driver() string
	Close() error
}
