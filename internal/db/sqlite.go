package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/schwifty-ng/internal/live"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite cache connection.
// Every committed write bumps a version published on Changes().
type DB struct {
	conn    *sql.DB
	logger  *log.Logger
	mu      sync.Mutex
	version uint64
	changes *live.Stream[uint64]
}

// New creates a new database connection and brings the schema up to date
func New(dbPath string, logger *log.Logger) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers; SQLite would otherwise return SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := newDB(conn, logger)
	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func newDB(conn *sql.DB, logger *log.Logger) *DB {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &DB{
		conn:    conn,
		logger:  logger,
		changes: live.NewStreamWith[uint64](0),
	}
}

// Close closes the database connection and ends every change subscription
func (db *DB) Close() error {
	db.changes.Close()
	return db.conn.Close()
}

// Changes publishes a new version after every committed write
func (db *DB) Changes() *live.Stream[uint64] {
	return db.changes
}

// notify bumps the change version
func (db *DB) notify() {
	db.mu.Lock()
	db.version++
	v := db.version
	db.mu.Unlock()
	db.changes.Publish(v)
}

// SchemaVersion returns the PRAGMA user_version of the open database
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := db.conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// migrate applies every pending migration, one transaction per step
func (db *DB) migrate(ctx context.Context) error {
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for v := current; v < schemaVersion; v++ {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", v+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d: %w", v+1, err)
		}
		// PRAGMA does not accept bound parameters
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", v+1, err)
		}
		db.logger.Info("Applied migration", "version", v+1)
	}

	return nil
}
