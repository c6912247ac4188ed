// Package storage implements the todos persistence layer on database/sql.
// MySQL is the production backend; SQLite is supported for local runs
// and is what the tests use.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"todolist/internal/config"
)

// Store wraps the shared connection pool and exposes the todo CRUD
// operations. Construct it with Open and pass it where it is needed;
// there is no package-level pool.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open creates the connection pool for the given driver and DSN. The
// database is not contacted here; use PingRetry to probe connectivity.
func Open(driver, dsn string, poolLimit int, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		// SQLite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(poolLimit)
		db.SetMaxIdleConns(poolLimit)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return &Store{db: db, driver: driver, logger: logger}, nil
}

// PingRetry probes the database a fixed number of times with a fixed
// delay between attempts. It returns the last ping error when every
// attempt fails; the caller decides whether that is fatal.
func (s *Store) PingRetry(ctx context.Context, attempts int, delay time.Duration) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = s.db.PingContext(ctx); err == nil {
			return nil
		}
		s.logger.Warn("database ping failed",
			slog.Int("attempt", i),
			slog.Int("max_attempts", attempts),
			slog.String("error", err.Error()))
		if i < attempts {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

// DB exposes the underlying pool for the migration runner.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
