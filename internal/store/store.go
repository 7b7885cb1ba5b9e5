// Package store persists run history in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ecasharvest/internal/harvest"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   TIMESTAMP NOT NULL,
	range_start  TEXT NOT NULL,
	range_end    TEXT NOT NULL,
	cases        INTEGER NOT NULL,
	documents    INTEGER NOT NULL,
	skipped      INTEGER NOT NULL,
	report_path  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	anumber        TEXT NOT NULL,
	label          TEXT NOT NULL,
	title          TEXT NOT NULL,
	filing_date    TEXT NOT NULL,
	relevant_dates TEXT NOT NULL,
	filename       TEXT NOT NULL,
	pages          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
CREATE INDEX IF NOT EXISTS idx_documents_anumber ON documents(anumber);
`

// Run is one persisted harvest run.
type Run struct {
	ID         string
	StartedAt  time.Time
	RangeStart string
	RangeEnd   string
	Cases      int
	Documents  int
	Skipped    int
	ReportPath string
}

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a completed run and its documents in one transaction.
func (s *Store) SaveRun(run Run, records []harvest.LogRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, started_at, range_start, range_end, cases, documents, skipped, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.RangeStart, run.RangeEnd,
		run.Cases, run.Documents, run.Skipped, run.ReportPath)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range records {
		_, err = tx.Exec(
			`INSERT INTO documents (run_id, anumber, label, title, filing_date, relevant_dates, filename, pages)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, rec.ANumber, rec.DocumentLabel, rec.PleadingTitle,
			rec.FilingDate, rec.RelevantDates, rec.FinalFilename, rec.Pages)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return tx.Commit()
}

// Runs lists persisted runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, range_start, range_end, cases, documents, skipped, report_path
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.RangeStart, &r.RangeEnd,
			&r.Cases, &r.Documents, &r.Skipped, &r.ReportPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Documents lists the documents recorded for a run.
func (s *Store) Documents(runID string) ([]harvest.LogRecord, error) {
	rows, err := s.db.Query(
		`SELECT anumber, label, title, filing_date, relevant_dates, filename, pages
		 FROM documents WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []harvest.LogRecord
	for rows.Next() {
		var rec harvest.LogRecord
		if err := rows.Scan(&rec.ANumber, &rec.DocumentLabel, &rec.PleadingTitle,
			&rec.FilingDate, &rec.RelevantDates, &rec.FinalFilename, &rec.Pages); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
