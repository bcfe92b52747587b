package ports

import (
	"context"
	"time"
)

// LedgerEntry is one dispatched document as stored in the history ledger.
type LedgerEntry struct {
	ArchiveID    string
	ArchivePath  string
	Document     string
	Printer      string
	ExitCode     int
	Duration     time.Duration
	FinalPath    string
	DispatchedAt time.Time
}

// Ledger keeps a history of dispatched documents.
// Implementations must be safe to call from the watcher goroutine only;
// no concurrent access is required.
type Ledger interface {
	// Record appends one entry.
	Record(ctx context.Context, entry LedgerEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]LedgerEntry, error)
}
