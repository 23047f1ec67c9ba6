package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-etl/internal/common"
	"github.com/Veraticus/spice-etl/internal/model"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "raw", "transactions.xlsx"), cfg.RawPath(model.DomainTransactions))
	assert.Equal(t, filepath.Join("data", "raw", "sales_funnel.xlsx"), cfg.RawPath(model.DomainSales))
	assert.Equal(t, filepath.Join("data", "processed", "inventory_clean.csv"), cfg.ProcessedPath(model.DomainInventory))
	assert.Equal(t, "sqlite3", cfg.Warehouse.Driver)
	assert.Equal(t, "data/warehouse.db", cfg.Warehouse.DSN())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  raw_dir: /srv/exports
warehouse:
  driver: mysql
  mysql:
    host: db.internal
    user: etl
    password: s3cret
    database: analytics
logging:
  format: json
`), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/exports", "inventory.xlsx"), cfg.RawPath(model.DomainInventory))
	assert.Equal(t, "etl:s3cret@tcp(db.internal:3306)/analytics", cfg.Warehouse.DSN())
	assert.Equal(t, "etl@db.internal:3306/analytics", cfg.Warehouse.Describe())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ExpandsPaths(t *testing.T) {
	t.Setenv("SPICE_ETL_TEST_ROOT", "/tmp/spice")
	v := newViper()
	v.Set("paths.processed_dir", "$SPICE_ETL_TEST_ROOT/processed")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/spice/processed", cfg.Paths.ProcessedDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		set     map[string]any
		wantErr error
		name    string
	}{
		{name: "unknown driver", set: map[string]any{"warehouse.driver": "postgres"}, wantErr: common.ErrInvalidConfig},
		{name: "mysql without database", set: map[string]any{"warehouse.driver": "mysql", "warehouse.mysql.user": "etl"}, wantErr: common.ErrMissingConfig},
		{name: "bad port", set: map[string]any{
			"warehouse.driver": "mysql", "warehouse.mysql.user": "etl",
			"warehouse.mysql.database": "dw", "warehouse.mysql.port": 0,
		}, wantErr: common.ErrInvalidConfig},
		{name: "bad log level", set: map[string]any{"logging.level": "chatty"}, wantErr: common.ErrInvalidConfig},
		{name: "bad log format", set: map[string]any{"logging.format": "xml"}, wantErr: common.ErrInvalidConfig},
		{name: "empty output", set: map[string]any{"outputs.sales": ""}, wantErr: common.ErrMissingConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPICE_ETL_TEST_ROOT", "/srv")

	assert.Equal(t, "", ResolvePath("/etc/spice", ""))
	assert.Equal(t, "data/raw", ResolvePath("", "data/raw"))
	assert.Equal(t, filepath.Join("/etc/spice", "data/raw"), ResolvePath("/etc/spice", "data/raw"))
	assert.Equal(t, "/srv/raw", ResolvePath("/etc/spice", "$SPICE_ETL_TEST_ROOT/raw"))
	assert.Equal(t, filepath.Join(home, "raw"), ResolvePath("/etc/spice", "~/raw"))
}

func TestLoad_RelativePathsFollowConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  raw_dir: exports
warehouse:
  path: ../warehouse.db
`), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "exports", "sales_funnel.xlsx"), cfg.RawPath(model.DomainSales))
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "warehouse.db"), cfg.Warehouse.Path)
	assert.Equal(t, filepath.Join("data", "processed", "sales_clean.csv"), cfg.ProcessedPath(model.DomainSales),
		"defaults stay relative to the working directory")
}
