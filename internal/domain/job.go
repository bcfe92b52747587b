package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ProcessedTimestampLayout is the second-granularity suffix appended to printed
// documents under archive retention (YYYYMMDD_HHMMSS).
const ProcessedTimestampLayout = "20060102_150405"

// PrintJob is one document bound for one printer through the print executable.
type PrintJob struct {
	DocumentPath string
	Printer      string
	Executable   string
}

// DispatchResult is the raw outcome of one print executable run.
// A zero ExitCode only means the executable said so; it says nothing about paper.
type DispatchResult struct {
	ExitCode int
	Duration time.Duration
}

// OK reports whether the executable exited with status zero.
func (r DispatchResult) OK() bool {
	return r.ExitCode == 0
}

// ProcessedRecord describes where a printed document was moved.
type ProcessedRecord struct {
	OriginalName string
	Timestamp    time.Time
	FinalPath    string
}

// ProcessedName returns the holding-area filename for name printed at t:
// "label.pdf" at 2024-03-01 14:05:09 becomes "label_20240301_140509.pdf".
// Two documents with the same name printed within the same second map to the
// same result.
func ProcessedName(name string, t time.Time) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return stem + "_" + t.Format(ProcessedTimestampLayout) + ext
}
