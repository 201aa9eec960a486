// Package store keeps a sqlite registry of runs and their per-step summaries.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"potts-ca/internal/simulation"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	steps       INTEGER NOT NULL,
	params      TEXT NOT NULL,
	finished_at TEXT
);

CREATE TABLE IF NOT EXISTS steps (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	step        INTEGER NOT NULL,
	time        REAL NOT NULL,
	cells       INTEGER NOT NULL,
	mean_volume REAL NOT NULL,
	std_volume  REAL NOT NULL,
	medium      INTEGER NOT NULL,
	accepted    INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// ErrNoRun is returned when steps are recorded before Begin.
var ErrNoRun = errors.New("store: no run started")

// Store records runs into a sqlite database. It implements simulation.Sink.
type Store struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// RunID returns the id of the current run, empty before Begin.
func (s *Store) RunID() string { return s.runID }

// Begin registers a new run under a fresh id.
func (s *Store) Begin(info simulation.RunInfo) error {
	params, err := json.Marshal(info.Params)
	if err != nil {
		return fmt.Errorf("store: encode params: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, started_at, width, height, steps, params) VALUES (?, ?, ?, ?, ?, ?)`,
		id, s.now().Format(time.RFC3339), info.Width, info.Height, info.Steps, string(params),
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	s.runID = id
	return nil
}

// Observe records one step summary.
func (s *Store) Observe(snap simulation.StepSnapshot) error {
	if s.runID == "" {
		return ErrNoRun
	}
	sum := snap.Summary
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO steps (run_id, step, time, cells, mean_volume, std_volume, medium, accepted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, snap.Step, snap.Time, sum.Cells, sum.MeanVolume, sum.StdVolume, sum.Medium, snap.Sweep.Accepted,
	)
	if err != nil {
		return fmt.Errorf("store: insert step %d: %w", snap.Step, err)
	}
	return nil
}

// End stamps the run as finished.
func (s *Store) End() error {
	if s.runID == "" {
		return nil
	}
	if _, err := s.db.Exec(`UPDATE runs SET finished_at = ? WHERE id = ?`, s.now().Format(time.RFC3339), s.runID); err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	return nil
}

// Run is a stored run.
type Run struct {
	ID       string
	Width    int
	Height   int
	Steps    int
	Params   string
	Finished bool
}

// StepRow is a stored step summary.
type StepRow struct {
	Step       int
	Time       float64
	Cells      int
	MeanVolume float64
	StdVolume  float64
	Medium     int
	Accepted   int
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, width, height, steps, params, finished_at IS NOT NULL FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Width, &r.Height, &r.Steps, &r.Params, &r.Finished); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Steps returns the step summaries of run id in step order.
func (s *Store) Steps(ctx context.Context, id string) ([]StepRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, time, cells, mean_volume, std_volume, medium, accepted FROM steps WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, fmt.Errorf("store: list steps: %w", err)
	}
	defer rows.Close()
	var out []StepRow
	for rows.Next() {
		var r StepRow
		if err := rows.Scan(&r.Step, &r.Time, &r.Cells, &r.MeanVolume, &r.StdVolume, &r.Medium, &r.Accepted); err != nil {
			return nil, fmt.Errorf("store: scan step: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
