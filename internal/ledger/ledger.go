// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of batch runs and their per-row
// outcomes. Runs only write to it; nothing is read back to skip or resume
// identifiers.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// Run summarizes one recorded batch run.
type Run struct {
	ID           string     `json:"id" yaml:"id"`
	StartedAt    time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	InputFile    string     `json:"input_file" yaml:"input_file"`
	OutputFolder string     `json:"output_folder" yaml:"output_folder"`
	Succeeded    int        `json:"succeeded" yaml:"succeeded"`
	Failed       int        `json:"failed" yaml:"failed"`
	FatalError   string     `json:"fatal_error,omitempty" yaml:"fatal_error,omitempty"`
}

// Ledger is the run history database.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger database at path, creating the parent
// directory and schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{db: db, now: time.Now}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			input_file TEXT,
			output_folder TEXT,
			succeeded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			fatal_error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			identifier TEXT NOT NULL,
			kind TEXT NOT NULL,
			source_url TEXT,
			reason TEXT,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_identifier ON outcomes(identifier)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a run and returns its ID.
func (l *Ledger) BeginRun(ctx context.Context, cfg types.RunConfig) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_file, output_folder) VALUES (?, ?, ?, ?)`,
		id, formatTime(l.now()), cfg.InputFile, cfg.OutputFolder,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// RecordOutcome stores the outcome of row seq of a run.
func (l *Ledger) RecordOutcome(ctx context.Context, runID string, seq int, o types.Outcome) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, seq, identifier, kind, source_url, reason, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, o.Identifier, string(o.Kind), o.SourceURL, o.Reason, formatTime(l.now()),
	)
	if err != nil {
		return fmt.Errorf("inserting outcome %s: %w", o.Identifier, err)
	}
	return nil
}

// FinishRun stamps the run with its totals and, when the run ended early,
// the fatal error.
func (l *Ledger) FinishRun(ctx context.Context, runID string, report *types.RunReport, fatal error) error {
	var fatalText sql.NullString
	if fatal != nil {
		fatalText = sql.NullString{String: fatal.Error(), Valid: true}
	}
	res, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, succeeded = ?, failed = ?, fatal_error = ? WHERE id = ?`,
		formatTime(l.now()), len(report.Successes), len(report.Failures), fatalText, runID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// Runs returns the most recent runs, newest first. limit <= 0 means 20.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_file, output_folder, succeeded, failed, fatal_error
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (l *Ledger) GetRun(ctx context.Context, runID string) (Run, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, input_file, output_folder, succeeded, failed, fatal_error
		 FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %s not found", runID)
	}
	return r, err
}

// Outcomes returns the outcomes of a run in row order.
func (l *Ledger) Outcomes(ctx context.Context, runID string) ([]types.Outcome, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT identifier, kind, source_url, reason FROM outcomes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var out []types.Outcome
	for rows.Next() {
		var o types.Outcome
		var kind string
		var sourceURL, reason sql.NullString
		if err := rows.Scan(&o.Identifier, &kind, &sourceURL, &reason); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Kind = types.OutcomeKind(kind)
		o.SourceURL = sourceURL.String
		o.Reason = reason.String
		out = append(out, o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	var started string
	var finished, input, output, fatal sql.NullString
	if err := s.Scan(&r.ID, &started, &finished, &input, &output, &r.Succeeded, &r.Failed, &fatal); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	r.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		r.FinishedAt = &t
	}
	r.InputFile = input.String
	r.OutputFolder = output.String
	r.FatalError = fatal.String
	return r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
