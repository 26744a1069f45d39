package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/store"
)

// Sink stores run output in a SQLite database.
type Sink struct {
	db *sql.DB

	mu    sync.Mutex
	runID string
}

var _ store.Sink = (*Sink)(nil)

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Serialize writers from concurrent workers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Sink{db: db}, nil
}

// Close closes the database connection
func (s *Sink) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	mode TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	docs INTEGER DEFAULT 0,
	records INTEGER DEFAULT 0,
	failed INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	file_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	line TEXT NOT NULL,
	PRIMARY KEY(run_id, file_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS failures (
	run_id TEXT NOT NULL,
	file_id TEXT NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY(run_id, file_id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_file ON records(file_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *Sink) currentRun() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == "" {
		return "", fmt.Errorf("no run in progress: %w", internalerr.ErrStoreUnavailable)
	}
	return s.runID, nil
}

// Begin records a new run; later writes belong to it.
func (s *Sink) Begin(ctx context.Context, run store.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, mode, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Kind, run.Mode, run.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("begin run %s: %w", run.ID, err)
	}
	s.mu.Lock()
	s.runID = run.ID
	s.mu.Unlock()
	return nil
}

// Write stores the records of one document in a single transaction.
func (s *Sink) Write(ctx context.Context, fileID string, records []string) error {
	runID, err := s.currentRun()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO records (run_id, file_id, seq, line) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, line := range records {
		if _, err := stmt.ExecContext(ctx, runID, fileID, i, line); err != nil {
			return fmt.Errorf("insert record %s#%d: %w", fileID, i, err)
		}
	}
	return tx.Commit()
}

// Fail records a document that could not be processed.
func (s *Sink) Fail(ctx context.Context, fileID string, cause error) error {
	runID, err := s.currentRun()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO failures (run_id, file_id, error) VALUES (?, ?, ?)`,
		runID, fileID, cause.Error())
	return err
}

// Finish stores the run summary.
func (s *Sink) Finish(ctx context.Context, stats store.Stats) error {
	runID, err := s.currentRun()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, docs = ?, records = ?, failed = ? WHERE id = ?`,
		stats.FinishedAt.UTC().Format(time.RFC3339Nano), stats.Docs, stats.Records, stats.Failed, runID)
	return err
}

// Run returns a stored run and its summary. Stats is zero for a run that
// never finished.
func (s *Sink) Run(ctx context.Context, runID string) (store.Run, store.Stats, error) {
	var (
		run        store.Run
		stats      store.Stats
		startedAt  string
		finishedAt sql.NullString
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, mode, started_at, finished_at, docs, records, failed FROM runs WHERE id = ?`, runID)
	err := row.Scan(&run.ID, &run.Kind, &run.Mode, &startedAt, &finishedAt, &stats.Docs, &stats.Records, &stats.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, store.Stats{}, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, store.Stats{}, err
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return store.Run{}, store.Stats{}, err
	}
	if finishedAt.Valid {
		if stats.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String); err != nil {
			return store.Run{}, store.Stats{}, err
		}
	}
	return run, stats, nil
}

// Runs returns the ids of all stored runs, oldest first.
func (s *Sink) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Records returns the records of a run ordered by file and position.
func (s *Sink) Records(ctx context.Context, runID string) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_id, seq, line FROM records WHERE run_id = ? ORDER BY file_id, seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var r store.Record
		if err := rows.Scan(&r.FileID, &r.Seq, &r.Line); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Failures returns the failed documents of a run ordered by file.
func (s *Sink) Failures(ctx context.Context, runID string) ([]store.Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_id, error FROM failures WHERE run_id = ? ORDER BY file_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Failure
	for rows.Next() {
		var f store.Failure
		if err := rows.Scan(&f.FileID, &f.Error); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
