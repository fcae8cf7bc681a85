// Package runs persists apply run history to a local SQLite database.
// It is an engine-side concern, independent of the resource State file
// in pkg/state: a State document answers "what does the engine think is
// deployed", while a Store answers "what did a given apply invocation
// do". Used by the CLI harness (cmd/froyoctl) to record apply outcomes;
// never touched by the dispatcher, server loop, or provider contract.
package runs

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver, pure Go, no cgo.
	_ "modernc.org/sqlite"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunStatus is the lifecycle state of one apply run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// ChangeOutcome is the per-address result recorded for a run.
type ChangeOutcome string

const (
	OutcomeSucceeded ChangeOutcome = "succeeded"
	OutcomeFailed    ChangeOutcome = "failed"
)

// Run records one invocation of apply against a provider.
type Run struct {
	ID              string
	ProviderName    string
	ProviderVersion string
	WorkspacePath   string
	Status          RunStatus
	StartedAt       time.Time
	CompletedAt     *time.Time
	Error           *string
	CreatedAt       time.Time
}

// RunChange records the outcome of one Change within a Run.
type RunChange struct {
	ID         string
	RunID      string
	Address    string
	ChangeType sdk.ChangeType
	Outcome    ChangeOutcome
	Error      *string
	CreatedAt  time.Time
}

// Store is a SQLite-backed run-history backend.
type Store struct {
	db   *sql.DB
	path string
}

// Config holds run-store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewStore creates a run store bound to the given SQLite file path.
// The connection is not opened until Init is called.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("runs: database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	return &Store{path: cfg.Path}, nil
}

// Init opens the database connection, enables WAL mode, and runs
// migrations.
func (s *Store) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("runs: open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("runs: ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("runs: enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return fmt.Errorf("runs: enable WAL mode: %w", err)
	}

	s.db = db
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate(_ context.Context) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("runs: migration source: %w", err)
	}
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("runs: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("runs: migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("runs: migrate up: %w", err)
	}
	return nil
}

// CreateRun inserts a new run record.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	const query = `
		INSERT INTO runs (id, provider_name, provider_version, workspace_path, status, started_at, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.ProviderName, run.ProviderVersion, run.WorkspacePath,
		run.Status, run.StartedAt, run.CompletedAt, run.Error,
	)
	if err != nil {
		return fmt.Errorf("runs: create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	const query = `
		SELECT id, provider_name, provider_version, workspace_path, status, started_at, completed_at, error, created_at
		FROM runs WHERE id = ?
	`
	run := &Run{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.ProviderName, &run.ProviderVersion, &run.WorkspacePath,
		&run.Status, &run.StartedAt, &run.CompletedAt, &run.Error, &run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("runs: run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("runs: get run: %w", err)
	}
	return run, nil
}

// UpdateRunStatus transitions a run to a new status, stamping
// completed_at when the status is terminal.
func (s *Store) UpdateRunStatus(ctx context.Context, id string, status RunStatus, errMsg *string) error {
	const query = `
		UPDATE runs SET status = ?, error = ?, completed_at = ? WHERE id = ?
	`
	var completedAt *time.Time
	if status == RunStatusCompleted || status == RunStatusFailed || status == RunStatusCancelled {
		now := time.Now()
		completedAt = &now
	}
	result, err := s.db.ExecContext(ctx, query, status, errMsg, completedAt, id)
	if err != nil {
		return fmt.Errorf("runs: update run status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("runs: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("runs: run not found: %s", id)
	}
	return nil
}

// ListRuns lists runs newest-first with pagination.
func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]*Run, error) {
	const query = `
		SELECT id, provider_name, provider_version, workspace_path, status, started_at, completed_at, error, created_at
		FROM runs ORDER BY started_at DESC LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("runs: list runs: %w", err)
	}
	defer rows.Close()

	out := []*Run{}
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID, &run.ProviderName, &run.ProviderVersion, &run.WorkspacePath,
			&run.Status, &run.StartedAt, &run.CompletedAt, &run.Error, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("runs: scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs: iterate runs: %w", err)
	}
	return out, nil
}

// RecordChange inserts one per-address outcome for a run.
func (s *Store) RecordChange(ctx context.Context, rc *RunChange) error {
	const query = `
		INSERT INTO run_changes (id, run_id, address, change_type, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rc.ID, rc.RunID, rc.Address, rc.ChangeType, rc.Outcome, rc.Error,
	)
	if err != nil {
		return fmt.Errorf("runs: record change: %w", err)
	}
	return nil
}

// ListChangesByRun lists all recorded changes for a run, oldest first.
func (s *Store) ListChangesByRun(ctx context.Context, runID string) ([]*RunChange, error) {
	const query = `
		SELECT id, run_id, address, change_type, outcome, error, created_at
		FROM run_changes WHERE run_id = ? ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("runs: list changes: %w", err)
	}
	defer rows.Close()

	out := []*RunChange{}
	for rows.Next() {
		rc := &RunChange{}
		if err := rows.Scan(&rc.ID, &rc.RunID, &rc.Address, &rc.ChangeType, &rc.Outcome, &rc.Error, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("runs: scan change: %w", err)
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs: iterate changes: %w", err)
	}
	return out, nil
}

// HealthCheck verifies the database connection is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("runs: database not initialized")
	}
	return s.db.PingContext(ctx)
}
