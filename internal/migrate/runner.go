// Package migrate applies schema changes in order and records each one
// in an append-only ledger table, so a unit executes at most once.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"todolist/internal/config"
)

// Record is one row of the migrations ledger.
type Record struct {
	ID        int64
	Name      string
	AppliedAt time.Time
}

// Runner applies pending migrations against a database handle.
type Runner struct {
	db         *sql.DB
	driver     string
	logger     *slog.Logger
	migrations []Migration
}

// NewRunner builds a runner over the defined migration set for the
// given driver.
func NewRunner(db *sql.DB, driver string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		db:         db,
		driver:     driver,
		logger:     logger,
		migrations: Defined(driver),
	}
}

// Up ensures the ledger table exists, then applies every defined unit
// that is not yet recorded, in lexicographic name order. Each applied
// unit is recorded immediately after its statements succeed. A failing
// unit aborts the run unrecorded, so a restart retries it; units after
// it are not attempted.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}

	applied, err := r.appliedNames(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]Migration, 0, len(r.migrations))
	for _, m := range r.migrations {
		if !applied[m.Name] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Name < pending[j].Name })

	if len(pending) == 0 {
		r.logger.Info("no pending migrations")
		return nil, nil
	}

	var ran []string
	for _, m := range pending {
		r.logger.Info("applying migration", slog.String("name", m.Name))
		for _, stmt := range m.Up {
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return ran, fmt.Errorf("migration %s: %w", m.Name, err)
			}
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO migrations (name) VALUES (?)`, m.Name); err != nil {
			return ran, fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		ran = append(ran, m.Name)
	}

	r.logger.Info("migrations applied", slog.Int("count", len(ran)))
	return ran, nil
}

// Rollback reverses a single applied unit by name and deletes its
// ledger row. It is never called during startup; reversal is an
// explicit operator action.
func (r *Runner) Rollback(ctx context.Context, name string) error {
	if err := r.ensureLedger(ctx); err != nil {
		return err
	}
	applied, err := r.appliedNames(ctx)
	if err != nil {
		return err
	}
	if !applied[name] {
		return fmt.Errorf("migration %s is not applied", name)
	}

	var target *Migration
	for i := range r.migrations {
		if r.migrations[i].Name == name {
			target = &r.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("unknown migration %s", name)
	}

	r.logger.Info("rolling back migration", slog.String("name", name))
	for _, stmt := range target.Down {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rollback %s: %w", name, err)
		}
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM migrations WHERE name = ?`, name); err != nil {
		return fmt.Errorf("unrecord migration %s: %w", name, err)
	}
	return nil
}

// Applied returns the ledger contents in application order.
func (r *Runner) Applied(ctx context.Context) ([]Record, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, applied_at FROM migrations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if r.driver == config.DriverSQLite {
		ddl = `CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	return nil
}

func (r *Runner) appliedNames(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM migrations`)
	if err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan migration name: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
