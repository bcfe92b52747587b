package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// Retention policy names as used in configuration.
const (
	RetentionArchive   = "archive"
	RetentionEphemeral = "ephemeral"
)

// ProcessedDirName is the holding area under the staging directory used by
// the archive policy.
const ProcessedDirName = "processed"

// NewRetention returns the policy registered under name.
func NewRetention(name string, logger ports.Logger) (ports.RetentionPolicy, error) {
	switch name {
	case RetentionArchive, "":
		return NewArchiveRetention(logger), nil
	case RetentionEphemeral:
		return NewEphemeralRetention(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown retention policy %q", domain.ErrConfiguration, name)
	}
}

// ArchiveRetention keeps the staging directory forever and moves every printed
// document into a "processed" subfolder with a timestamp suffix. It never deletes.
type ArchiveRetention struct {
	now    func() time.Time
	logger ports.Logger
}

// NewArchiveRetention creates an ArchiveRetention using the wall clock.
func NewArchiveRetention(logger ports.Logger) *ArchiveRetention {
	return &ArchiveRetention{now: time.Now, logger: logger}
}

// WithClock replaces the clock used for timestamp suffixes.
func (a *ArchiveRetention) WithClock(now func() time.Time) *ArchiveRetention {
	a.now = now
	return a
}

func (a *ArchiveRetention) Name() string { return RetentionArchive }

// Prepare creates the staging directory and its processed subfolder.
// A staging directory that cannot be created is an archive error.
func (a *ArchiveRetention) Prepare(stagingDir string) error {
	dir := filepath.Join(stagingDir, ProcessedDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Wrap(domain.ErrArchive, "mkdir "+dir, err)
	}
	return nil
}

// AfterDispatch renames document to processed/{stem}_{YYYYMMDD_HHMMSS}{ext}.
// A document with the same name printed within the same second replaces the
// earlier one.
func (a *ArchiveRetention) AfterDispatch(stagingDir, document string) (*domain.ProcessedRecord, error) {
	ts := a.now()
	name := filepath.Base(document)
	dest := filepath.Join(stagingDir, ProcessedDirName, domain.ProcessedName(name, ts))

	if err := os.Rename(document, dest); err != nil {
		return nil, domain.Wrap(domain.ErrFileSystem, "rename "+document, err)
	}

	a.logger.Debug("document archived",
		ports.Document(name),
		ports.String("dest", dest),
	)
	return &domain.ProcessedRecord{OriginalName: name, Timestamp: ts, FinalPath: dest}, nil
}

func (a *ArchiveRetention) Finish(stagingDir string) error { return nil }

// EphemeralRetention wipes the staging directory before every extraction and
// again after the batch, leaving nothing behind.
type EphemeralRetention struct {
	logger ports.Logger
}

// NewEphemeralRetention creates an EphemeralRetention.
func NewEphemeralRetention(logger ports.Logger) *EphemeralRetention {
	return &EphemeralRetention{logger: logger}
}

func (e *EphemeralRetention) Name() string { return RetentionEphemeral }

// Prepare removes any leftovers and recreates an empty staging directory.
// Failing to do either is an archive error.
func (e *EphemeralRetention) Prepare(stagingDir string) error {
	if err := os.RemoveAll(stagingDir); err != nil {
		return domain.Wrap(domain.ErrArchive, "wipe "+stagingDir, err)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return domain.Wrap(domain.ErrArchive, "mkdir "+stagingDir, err)
	}
	return nil
}

func (e *EphemeralRetention) AfterDispatch(stagingDir, document string) (*domain.ProcessedRecord, error) {
	return nil, nil
}

// Finish removes the whole staging tree.
func (e *EphemeralRetention) Finish(stagingDir string) error {
	if err := os.RemoveAll(stagingDir); err != nil {
		return domain.Wrap(domain.ErrFileSystem, "wipe "+stagingDir, err)
	}
	e.logger.Debug("staging wiped", ports.String("staging", stagingDir))
	return nil
}

var (
	_ ports.RetentionPolicy = (*ArchiveRetention)(nil)
	_ ports.RetentionPolicy = (*EphemeralRetention)(nil)
)
