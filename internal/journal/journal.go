// Package journal is an append-only, non-authoritative audit log of sweep
// outcomes and hook events, backed by modernc.org/sqlite. It records what
// happened to each issue over time; no pleb command reads it (`pleb log`
// tails only the text log), the orchestrator and the state tracker never
// read from it, and deleting the database file must never change behavior.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one row of the audit journal.
type Entry struct {
	ID          int64
	IssueNumber int
	Kind        string // "sweep" or "hook"
	Detail      string
	RecordedAt  time.Time
}

// Journal wraps a sqlite-backed append-only event log.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_number INTEGER NOT NULL,
	kind TEXT NOT NULL,
	detail TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_issue ON events(issue_number);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one event. A failure to record is logged by the caller
// and otherwise ignored: the journal is strictly additive and never
// load-bearing for orchestrator correctness.
func (j *Journal) Record(ctx context.Context, issueNumber int, kind, detail string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (issue_number, kind, detail, recorded_at) VALUES (?, ?, ?, ?)`,
		issueNumber, kind, detail, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording journal event: %w", err)
	}
	return nil
}

// ForIssue returns every recorded event for an issue, oldest first.
func (j *Journal) ForIssue(ctx context.Context, issueNumber int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, issue_number, kind, detail, recorded_at FROM events WHERE issue_number = ? ORDER BY id ASC`,
		issueNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.IssueNumber, &e.Kind, &e.Detail, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Recent returns the last n events across all issues, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, issue_number, kind, detail, recorded_at FROM events ORDER BY id DESC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.IssueNumber, &e.Kind, &e.Detail, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
