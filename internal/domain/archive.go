package domain

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default naming convention for label archives.
const (
	DefaultPrefix = "Etiquetas - "
	DefaultSuffix = ".zip"
)

// Filter selects archive filenames by exact, case-sensitive prefix and suffix.
type Filter struct {
	Prefix string
	Suffix string
}

// DefaultFilter returns the "Etiquetas - *.zip" convention.
func DefaultFilter() Filter {
	return Filter{Prefix: DefaultPrefix, Suffix: DefaultSuffix}
}

// Match reports whether name satisfies both the prefix and the suffix.
func (f Filter) Match(name string) bool {
	return strings.HasPrefix(name, f.Prefix) && strings.HasSuffix(name, f.Suffix)
}

// Snapshot is the set of filenames observed in a directory at one point in time.
type Snapshot map[string]struct{}

// NewSnapshot builds a snapshot from a directory listing.
func NewSnapshot(names []string) Snapshot {
	s := make(Snapshot, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name was observed.
func (s Snapshot) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of observed names.
func (s Snapshot) Len() int {
	return len(s)
}

// Diff returns the names in s that are absent from previous.
// The result is sorted for stable logging; callers must not rely on the order
// meaning anything about arrival time.
func (s Snapshot) Diff(previous Snapshot) []string {
	var added []string
	for name := range s {
		if !previous.Contains(name) {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	return added
}

// NewArrivals returns the names in s that are absent from previous and match f.
func (s Snapshot) NewArrivals(previous Snapshot, f Filter) []string {
	var out []string
	for _, name := range s.Diff(previous) {
		if f.Match(name) {
			out = append(out, name)
		}
	}
	return out
}

// ArchiveEvent is a newly detected archive. It is created when a matching
// filename first appears and consumed immediately by the pipeline.
type ArchiveEvent struct {
	// ID correlates log lines and history rows for one archive.
	ID string

	// ArchivePath is the full path of the archive in the watched directory.
	ArchivePath string

	// DetectedAt is when the poll tick noticed the archive.
	DetectedAt time.Time
}

// NewArchiveEvent creates an event for the archive named name inside dir.
func NewArchiveEvent(dir, name string, detectedAt time.Time) ArchiveEvent {
	return ArchiveEvent{
		ID:          uuid.NewString(),
		ArchivePath: filepath.Join(dir, name),
		DetectedAt:  detectedAt,
	}
}

// Name returns the archive's base filename.
func (e ArchiveEvent) Name() string {
	return filepath.Base(e.ArchivePath)
}
