// Package storage persists the star schema: dimension tables, fact tables and the run log.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Veraticus/spice-etl/internal/common"
)

// Supported warehouse drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Options selects and locates a warehouse.
type Options struct {
	// Driver is DriverSQLite or DriverMySQL.
	Driver string
	// DSN is a file path for SQLite and a go-sql-driver DSN for MySQL.
	DSN string
}

// Warehouse is a connection to the star-schema database.
type Warehouse struct {
	db      *sqlx.DB
	dialect dialect
}

// Open connects to the warehouse described by opts. Schema changes are applied separately
// with Migrate.
func Open(ctx context.Context, opts Options) (*Warehouse, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(opts.DSN, "dsn"); err != nil {
		return nil, err
	}

	var (
		db       *sqlx.DB
		err      error
		attempts = 1
	)
	switch opts.Driver {
	case DriverSQLite:
		if err = os.MkdirAll(filepath.Dir(opts.DSN), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err = sqlx.Open(DriverSQLite, opts.DSN+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// SQLite doesn't benefit from multiple connections
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	case DriverMySQL:
		db, err = sqlx.Open(DriverMySQL, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(4)
		db.SetConnMaxLifetime(5 * time.Minute)
		attempts = 3
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}

	ping := func() error {
		pingErr := db.PingContext(ctx)
		var myErr *mysql.MySQLError
		if errors.As(pingErr, &myErr) {
			// The server answered; retrying won't change its mind.
			return &common.RetryableError{Err: pingErr, Retryable: false}
		}
		return pingErr
	}
	if err := common.WithRetry(ctx, ping, common.RetryOptions{MaxAttempts: attempts, InitialDelay: 500 * time.Millisecond}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db)
}

// New wraps an existing handle. The SQL dialect follows the handle's driver name.
func New(db *sqlx.DB) (*Warehouse, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &Warehouse{db: db, dialect: d}, nil
}

// Driver returns the warehouse driver name.
func (w *Warehouse) Driver() string {
	return w.dialect.name
}

// Close closes the database connection.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// inTx runs fn inside one transaction. Any failure rolls back every write fn made and is
// reported as a *common.PersistenceError.
func (w *Warehouse) inTx(ctx context.Context, op, table string, fn func(tx *sqlx.Tx) error) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return common.NewPersistenceError("begin", table, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return common.NewPersistenceError(op, table, err)
	}
	if err := tx.Commit(); err != nil {
		return common.NewPersistenceError("commit", table, err)
	}
	return nil
}
