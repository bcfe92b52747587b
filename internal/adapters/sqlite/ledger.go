// Package sqlite stores the print history in an SQLite database.
//
// The ledger is optional: the watcher keeps working without it, and a failed
// write is logged and ignored by the pipeline.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bft-labs/printwatch/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS dispatches (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	archive_id    TEXT    NOT NULL,
	archive_path  TEXT    NOT NULL,
	document      TEXT    NOT NULL,
	printer       TEXT    NOT NULL,
	exit_code     INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL,
	final_path    TEXT    NOT NULL DEFAULT '',
	dispatched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dispatches_at ON dispatches (dispatched_at);
`

// Ledger implements ports.Ledger.
type Ledger struct {
	db *sql.DB
}

// Open opens (and creates if needed) the ledger database at path.
// Use ":memory:" for a throwaway ledger.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and matches the
	// single watcher goroutine.
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ledger: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record appends one dispatched document.
func (l *Ledger) Record(ctx context.Context, e ports.LedgerEntry) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO dispatches
			(archive_id, archive_path, document, printer, exit_code, duration_ms, final_path, dispatched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ArchiveID, e.ArchivePath, e.Document, e.Printer, e.ExitCode,
		e.Duration.Milliseconds(), e.FinalPath, e.DispatchedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("ledger: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]ports.LedgerEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT archive_id, archive_path, document, printer, exit_code, duration_ms, final_path, dispatched_at
		FROM dispatches
		ORDER BY dispatched_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: query: %w", err)
	}
	defer rows.Close()

	var out []ports.LedgerEntry
	for rows.Next() {
		var (
			e          ports.LedgerEntry
			durationMS int64
			at         int64
		)
		if err := rows.Scan(&e.ArchiveID, &e.ArchivePath, &e.Document, &e.Printer,
			&e.ExitCode, &durationMS, &e.FinalPath, &at); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.DispatchedAt = time.Unix(0, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

var _ ports.Ledger = (*Ledger)(nil)
