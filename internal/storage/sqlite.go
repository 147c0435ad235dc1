// Package storage persists batch run history in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Run is one recorded batch run with its outcome totals.
type Run struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	InputPath string    `json:"input_path"`
	Total     int       `json:"total"`
	OK        int       `json:"ok"`
	Warnings  int       `json:"warnings"`
	Errors    int       `json:"errors"`
}

// RecordResult is one per-record disposition within a run.
type RecordResult struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Outcome string `json:"outcome"`
}

// OpenDB opens or creates the history database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			input_path TEXT NOT NULL,
			total INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			errors INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_records (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			key TEXT NOT NULL,
			type TEXT NOT NULL,
			outcome TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_run_records_run ON run_records(run_id);
	`

	_, err := db.Exec(schema)
	return err
}

// RecordRun stores one completed run and its per-record results, returning
// the new run's ID.
func (d *DB) RecordRun(run Run, results []RecordResult) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (started_at, input_path, total, ok, warnings, errors)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.StartedAt.Unix(), run.InputPath, run.Total, run.OK, run.Warnings, run.Errors)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_records (run_id, key, type, outcome) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(id, r.Key, r.Type, r.Outcome); err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	return id, nil
}

// ListRuns returns recorded runs, most recent first, up to limit.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	rows, err := d.db.Query(`
		SELECT id, started_at, input_path, total, ok, warnings, errors
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt int64
		if err := rows.Scan(&r.ID, &startedAt, &r.InputPath, &r.Total, &r.OK, &r.Warnings, &r.Errors); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0).UTC()
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// RunRecords returns the per-record results for one run in input order.
func (d *DB) RunRecords(runID int64) ([]RecordResult, error) {
	rows, err := d.db.Query(`
		SELECT key, type, outcome FROM run_records
		WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run records: %w", err)
	}
	defer rows.Close()

	var results []RecordResult
	for rows.Next() {
		var r RecordResult
		if err := rows.Scan(&r.Key, &r.Type, &r.Outcome); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
