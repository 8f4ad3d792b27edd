package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// FileName is the journal database inside the output directory.
const FileName = "journal.db"

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("journal is closed")

// Journal is safe for concurrent use.
type Journal struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path, creating its directory.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// One connection keeps pragmas and writes on the same handle.
	db.SetMaxOpenConns(1)

	for _, stmt := range append([]string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}, schemaDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing journal schema: %w", err)
		}
	}
	return &Journal{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the database. It is idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// BeginRun records a new running run and returns its UUID v7 id.
func (j *Journal) BeginRun(mode types.Mode, planeStringID string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return "", ErrClosed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	_, err = j.db.Exec(
		"INSERT INTO runs (run_id, mode, plane_string_id, status, started_at) VALUES (?, ?, ?, ?, ?)",
		id.String(), string(mode), planeStringID, string(types.RunRunning), formatTime(j.now()),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id.String(), nil
}

// RecordStep inserts or replaces the step for s.Table within the run. Steps
// keep the position of their first recording.
func (j *Journal) RecordStep(runID string, s types.Step) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ErrClosed
	}
	if s.Table == "" {
		return errors.New("step table name must not be empty")
	}

	_, err := j.db.Exec(`INSERT INTO steps
    (run_id, seq, table_name, source_path, json_path, native_path, staging_dir, status, error, updated_at)
VALUES (?, (SELECT COUNT(*) FROM steps WHERE run_id = ?), ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (run_id, table_name) DO UPDATE SET
    source_path = excluded.source_path,
    json_path = excluded.json_path,
    native_path = excluded.native_path,
    staging_dir = excluded.staging_dir,
    status = excluded.status,
    error = excluded.error,
    updated_at = excluded.updated_at`,
		runID, runID, s.Table, s.SourcePath, s.JSONPath, s.NativePath, s.StagingDir,
		string(s.Status), s.Error, formatTime(j.now()),
	)
	if err != nil {
		return fmt.Errorf("recording step %s of run %s: %w", s.Table, runID, err)
	}
	return nil
}

// FinishRun sets the final status of a run.
func (j *Journal) FinishRun(runID string, status types.RunStatus, message string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ErrClosed
	}

	res, err := j.db.Exec(
		"UPDATE runs SET status = ?, message = ?, finished_at = ? WHERE run_id = ?",
		string(status), message, formatTime(j.now()), runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &types.NotFoundError{What: "run", Path: runID}
	}
	return nil
}

// Run returns one run.
func (j *Journal) Run(runID string) (types.Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return types.Run{}, ErrClosed
	}

	row := j.db.QueryRow(
		"SELECT run_id, mode, plane_string_id, status, message, started_at, finished_at FROM runs WHERE run_id = ?",
		runID,
	)
	r, err := hydrateRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Run{}, &types.NotFoundError{What: "run", Path: runID}
	}
	if err != nil {
		return types.Run{}, fmt.Errorf("getting run %s: %w", runID, err)
	}
	return r, nil
}

// Runs returns the most recent runs first. A limit <= 0 returns all of them.
func (j *Journal) Runs(limit int) ([]types.Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := j.db.Query(
		"SELECT run_id, mode, plane_string_id, status, message, started_at, finished_at FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []types.Run
	for rows.Next() {
		r, err := hydrateRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Steps returns the steps of a run in the order they were first recorded.
func (j *Journal) Steps(runID string) ([]types.Step, error) {
	return j.querySteps("SELECT "+stepColumns+" FROM steps WHERE run_id = ? ORDER BY seq", runID)
}

// PendingConversions returns the steps of a run whose JSON output still
// needs converting.
func (j *Journal) PendingConversions(runID string) ([]types.Step, error) {
	return j.querySteps(
		"SELECT "+stepColumns+" FROM steps WHERE run_id = ? AND json_path != '' AND status IN (?, ?, ?) ORDER BY seq",
		runID, string(types.StepWritten), string(types.StepConversionFailed), string(types.StepConversionSkipped),
	)
}

const stepColumns = "table_name, source_path, json_path, native_path, staging_dir, status, error, updated_at"

func (j *Journal) querySteps(query string, args ...any) ([]types.Step, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var out []types.Step
	for rows.Next() {
		var s types.Step
		var status, updated string
		if err := rows.Scan(&s.Table, &s.SourcePath, &s.JSONPath, &s.NativePath, &s.StagingDir, &status, &s.Error, &updated); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		s.Status = types.StepStatus(status)
		if s.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func hydrateRun(row scanner) (types.Run, error) {
	var (
		r            types.Run
		mode, status string
		started      string
		finished     sql.NullString
	)
	if err := row.Scan(&r.RunID, &mode, &r.PlaneStringID, &status, &r.Message, &started, &finished); err != nil {
		return types.Run{}, err
	}
	r.Mode = types.Mode(mode)
	r.Status = types.RunStatus(status)

	var err error
	if r.StartedAt, err = parseTime(started); err != nil {
		return types.Run{}, err
	}
	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return types.Run{}, err
		}
		r.FinishedAt = &t
	}
	return r, nil
}

// timeLayout is fixed-width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
