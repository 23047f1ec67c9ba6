// Package testutil provides test helpers for warehouse-backed and file-backed tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spice-etl/internal/storage"
)

// SetupWarehouse opens a migrated SQLite warehouse under t.TempDir(). It is closed when the
// test ends.
//
// Example:
//
//	wh := testutil.SetupWarehouse(t)
//	counts := testutil.RowCounts(t, wh)
func SetupWarehouse(t *testing.T) *storage.Warehouse {
	t.Helper()
	return OpenWarehouse(t, filepath.Join(t.TempDir(), "warehouse.db"), true)
}

// OpenWarehouse opens the SQLite warehouse at path, migrating it when migrate is set.
func OpenWarehouse(t *testing.T, path string, migrate bool) *storage.Warehouse {
	t.Helper()

	ctx := context.Background()
	wh, err := storage.Open(ctx, storage.Options{Driver: storage.DriverSQLite, DSN: path})
	if err != nil {
		t.Fatalf("failed to open test warehouse: %v", err)
	}
	t.Cleanup(func() {
		if err := wh.Close(); err != nil {
			t.Logf("failed to close test warehouse: %v", err)
		}
	})

	if migrate {
		if err := wh.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}
	return wh
}

// RowCounts returns the row count of every warehouse table keyed by table name.
func RowCounts(t *testing.T, wh *storage.Warehouse) map[string]int64 {
	t.Helper()

	counts, err := wh.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	out := make(map[string]int64, len(counts))
	for _, c := range counts {
		out[c.Table] = c.Rows
	}
	return out
}
