// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/database/query"
	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/recommend"
)

// DB wraps the store connection and provides data access methods
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	driver string
	style  query.PlaceholderStyle
	now    func() time.Time
	newID  func() string
}

var (
	_ recommend.ContentStore        = (*DB)(nil)
	_ recommend.WatchHistoryStore   = (*DB)(nil)
	_ recommend.ViewerStore         = (*DB)(nil)
	_ recommend.RecommendationStore = (*DB)(nil)
)

// New opens the configured driver and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		conn, err = sql.Open("postgres", cfg.DSN)
	case config.DriverDuckDB, "":
		conn, err = openDuckDB(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := NewWithConn(conn, cfg)

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// NewWithConn wraps an already opened connection without touching the schema.
// cfg.Driver selects the SQL dialect.
func NewWithConn(conn *sql.DB, cfg *config.DatabaseConfig) *DB {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverDuckDB
	}
	style := query.PlaceholderQuestion
	if driver == config.DriverPostgres {
		style = query.PlaceholderDollar
	}
	return &DB{
		conn:   conn,
		cfg:    cfg,
		driver: driver,
		style:  style,
		now:    time.Now,
		newID:  newRecordID,
	}
}

// openDuckDB builds the DuckDB connection string with tuning options.
func openDuckDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		if dbDir := filepath.Dir(cfg.Path); dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}
	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, maxMemory, preserveOrder)

	return sql.Open("duckdb", connStr)
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	maxOpen := db.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = runtime.NumCPU()
	}
	maxIdle := db.cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	lifetime := db.cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}

	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(maxIdle)
	db.conn.SetConnMaxLifetime(lifetime)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates tables and indexes, then flushes the WAL.
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}

	if !db.cfg.SkipIndexes {
		if err := db.createIndexes(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}
	return nil
}

// Migrate re-runs the idempotent schema creation.
func (db *DB) Migrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.initialize()
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the active driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Close checkpoints (DuckDB) and closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint forces a DuckDB WAL checkpoint. It is a no-op on PostgreSQL.
func (db *DB) Checkpoint(ctx context.Context) error {
	if db.driver != config.DriverDuckDB {
		return nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// SetClock overrides the time source used for seeded timestamps.
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// rebind converts ? placeholders for the active driver.
func (db *DB) rebind(sql string) string {
	return query.Rebind(db.style, sql)
}

// ensureContext adds a 30-second timeout when ctx has no deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}
