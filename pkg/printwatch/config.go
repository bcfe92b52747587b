package printwatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/printwatch/internal/adapters/fs"
	"github.com/bft-labs/printwatch/internal/app"
	"github.com/bft-labs/printwatch/internal/domain"
)

// Retention policy names.
const (
	RetentionArchive   = fs.RetentionArchive
	RetentionEphemeral = fs.RetentionEphemeral
)

// Config configures a Service.
type Config struct {
	// WatchDir is the directory polled for new archives. Required.
	WatchDir string

	// Printer is passed verbatim to the executable. Required.
	Printer string

	// Executable is the resolved path of the print-capable program. Required.
	Executable string

	// StagingDir receives extracted archives. Defaults to "temp_etiquetas".
	StagingDir string

	// Retention is RetentionArchive (default) or RetentionEphemeral.
	Retention string

	// PollInterval defaults to 5s.
	PollInterval time.Duration

	// PrintTimeout bounds one executable run. Zero waits forever.
	PrintTimeout time.Duration

	StrictExit      bool
	IsolateFailures bool

	// Notify polls early when the file system reports a matching archive.
	Notify bool

	// CountPages reads every document before printing to report its page count.
	CountPages bool

	// HistoryDB is the SQLite file recording dispatched documents. Empty disables it.
	HistoryDB string

	// Prefix and Suffix select archive names. Both default to the
	// "Etiquetas - *.zip" convention when left empty.
	Prefix string
	Suffix string
}

// SetDefaults fills in zero values.
func (c *Config) SetDefaults() {
	if c.StagingDir == "" {
		c.StagingDir = "temp_etiquetas"
	}
	if c.Retention == "" {
		c.Retention = RetentionArchive
	}
	if c.PollInterval <= 0 {
		c.PollInterval = app.DefaultPollInterval
	}
	if c.Prefix == "" && c.Suffix == "" {
		c.Prefix = domain.DefaultPrefix
		c.Suffix = domain.DefaultSuffix
	}
}

// Validate reports missing required fields. Errors wrap ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if c.WatchDir == "" {
		errs = append(errs, errors.New("watch directory is required"))
	}
	if c.Printer == "" {
		errs = append(errs, errors.New("printer is required"))
	}
	if c.Executable == "" {
		errs = append(errs, errors.New("print executable is required"))
	}
	if c.PrintTimeout < 0 {
		errs = append(errs, errors.New("print timeout must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return nil
}

func (c *Config) filter() domain.Filter {
	return domain.Filter{Prefix: c.Prefix, Suffix: c.Suffix}
}
