// Package store persists experiment runs in a local SQLite database so
// batches can be compared across invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/greenhub/hubsim/internal/experiment"
)

// ErrNotFound is returned when the requested run does not exist.
var ErrNotFound = errors.New("experiment run not found")

const schema = `
CREATE TABLE IF NOT EXISTS experiment_runs (
	id           TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	trials       INTEGER NOT NULL,
	jobs_per_trial INTEGER NOT NULL,
	summary      TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);`

// ExperimentRun is one persisted batch with its aggregated summary.
type ExperimentRun struct {
	ID           string             `json:"id"`
	Seed         int64              `json:"seed"`
	Trials       int                `json:"trials"`
	JobsPerTrial int                `json:"jobs_per_trial"`
	Summary      experiment.Summary `json:"summary"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts one experiment run.
func (s *Store) SaveRun(ctx context.Context, run ExperimentRun) error {
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO experiment_runs (id, seed, trials, jobs_per_trial, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.Trials, run.JobsPerTrial, string(summary), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]ExperimentRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, trials, jobs_per_trial, summary, created_at
		 FROM experiment_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []ExperimentRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*ExperimentRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, trials, jobs_per_trial, summary, created_at
		 FROM experiment_runs WHERE id = ?`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRun(scan func(dest ...any) error) (ExperimentRun, error) {
	var run ExperimentRun
	var summary string
	if err := scan(&run.ID, &run.Seed, &run.Trials, &run.JobsPerTrial, &summary, &run.CreatedAt); err != nil {
		return run, err
	}
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return run, fmt.Errorf("unmarshal summary: %w", err)
	}
	return run, nil
}
