// Package config loads and validates the pipeline configuration.
package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-etl/internal/common"
	"github.com/Veraticus/spice-etl/internal/model"
)

// Config is the pipeline configuration.
type Config struct {
	Paths     Paths     `mapstructure:"paths"`
	Inputs    Files     `mapstructure:"inputs"`
	Outputs   Files     `mapstructure:"outputs"`
	Logging   Logging   `mapstructure:"logging"`
	Warehouse Warehouse `mapstructure:"warehouse"`
}

// Paths locates the raw and processed data directories.
type Paths struct {
	RawDir       string `mapstructure:"raw_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
}

// Files names one file per domain.
type Files struct {
	Transactions string `mapstructure:"transactions"`
	Sales        string `mapstructure:"sales"`
	Inventory    string `mapstructure:"inventory"`
}

// Logging configures the global logger.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Warehouse selects the warehouse database.
type Warehouse struct {
	Driver string `mapstructure:"driver"`
	// Path is the SQLite database file.
	Path  string `mapstructure:"path"`
	MySQL MySQL  `mapstructure:"mysql"`
}

// MySQL holds MySQL connection parameters.
type MySQL struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Port     int    `mapstructure:"port"`
}

// SetDefaults registers every key with its default so env overrides and Unmarshal see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("paths.raw_dir", "data/raw")
	v.SetDefault("paths.processed_dir", "data/processed")

	v.SetDefault("inputs.transactions", "transactions.xlsx")
	v.SetDefault("inputs.sales", "sales_funnel.xlsx")
	v.SetDefault("inputs.inventory", "inventory.xlsx")

	v.SetDefault("outputs.transactions", "transactions_clean.csv")
	v.SetDefault("outputs.sales", "sales_clean.csv")
	v.SetDefault("outputs.inventory", "inventory_clean.csv")

	v.SetDefault("warehouse.driver", "sqlite3")
	v.SetDefault("warehouse.path", "data/warehouse.db")
	v.SetDefault("warehouse.mysql.host", "localhost")
	v.SetDefault("warehouse.mysql.port", 3306)
	v.SetDefault("warehouse.mysql.user", "")
	v.SetDefault("warehouse.mysql.password", "")
	v.SetDefault("warehouse.mysql.database", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load unmarshals and validates the configuration held by v. Paths have ~ and $VAR expanded,
// and relative paths written in a config file are resolved against that file's directory.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	cfg.Paths.RawDir = resolveKey(v, "paths.raw_dir", cfg.Paths.RawDir)
	cfg.Paths.ProcessedDir = resolveKey(v, "paths.processed_dir", cfg.Paths.ProcessedDir)
	cfg.Warehouse.Path = resolveKey(v, "warehouse.path", cfg.Warehouse.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	required := map[string]string{
		"paths.raw_dir":        c.Paths.RawDir,
		"paths.processed_dir":  c.Paths.ProcessedDir,
		"inputs.transactions":  c.Inputs.Transactions,
		"inputs.sales":         c.Inputs.Sales,
		"inputs.inventory":     c.Inputs.Inventory,
		"outputs.transactions": c.Outputs.Transactions,
		"outputs.sales":        c.Outputs.Sales,
		"outputs.inventory":    c.Outputs.Inventory,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", common.ErrMissingConfig, key)
		}
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}

	switch c.Warehouse.Driver {
	case "sqlite3":
		if c.Warehouse.Path == "" {
			return fmt.Errorf("%w: warehouse.path", common.ErrMissingConfig)
		}
	case "mysql":
		if c.Warehouse.MySQL.Host == "" || c.Warehouse.MySQL.Database == "" || c.Warehouse.MySQL.User == "" {
			return fmt.Errorf("%w: warehouse.mysql requires host, user and database", common.ErrMissingConfig)
		}
		if c.Warehouse.MySQL.Port <= 0 || c.Warehouse.MySQL.Port > 65535 {
			return fmt.Errorf("%w: warehouse.mysql.port %d", common.ErrInvalidConfig, c.Warehouse.MySQL.Port)
		}
	default:
		return fmt.Errorf("%w: warehouse.driver %q (want sqlite3 or mysql)", common.ErrInvalidConfig, c.Warehouse.Driver)
	}
	return nil
}

// RawPath returns the raw export for a domain.
func (c *Config) RawPath(d model.Domain) string {
	return filepath.Join(c.Paths.RawDir, c.Inputs.forDomain(d))
}

// ProcessedPath returns the cleaned intermediate file for a domain.
func (c *Config) ProcessedPath(d model.Domain) string {
	return filepath.Join(c.Paths.ProcessedDir, c.Outputs.forDomain(d))
}

func (f Files) forDomain(d model.Domain) string {
	switch d {
	case model.DomainTransactions:
		return f.Transactions
	case model.DomainSales:
		return f.Sales
	case model.DomainInventory:
		return f.Inventory
	default:
		return ""
	}
}

// DSN returns the driver-specific data source name.
func (w Warehouse) DSN() string {
	if w.Driver != "mysql" {
		return w.Path
	}
	mc := mysql.NewConfig()
	mc.User = w.MySQL.User
	mc.Passwd = w.MySQL.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(w.MySQL.Host, strconv.Itoa(w.MySQL.Port))
	mc.DBName = w.MySQL.Database
	return mc.FormatDSN()
}

// Describe returns a credential-free description of the warehouse for log output.
func (w Warehouse) Describe() string {
	if w.Driver != "mysql" {
		return w.Path
	}
	return fmt.Sprintf("%s@%s/%s", w.MySQL.User, net.JoinHostPort(w.MySQL.Host, strconv.Itoa(w.MySQL.Port)), w.MySQL.Database)
}
