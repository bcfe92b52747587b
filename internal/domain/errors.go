package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error leaving an adapter wraps exactly one of these.
var (
	// ErrConfiguration is returned when the print executable path is missing or invalid.
	ErrConfiguration = errors.New("printwatch: configuration error")

	// ErrArchive is returned for corrupt zips and for staging directories that
	// cannot be prepared or written during extraction.
	ErrArchive = errors.New("printwatch: archive error")

	// ErrDispatch is returned when the print executable cannot be launched.
	ErrDispatch = errors.New("printwatch: dispatch error")

	// ErrFileSystem is returned for listing, rename and delete failures.
	ErrFileSystem = errors.New("printwatch: file system error")
)

// Lifecycle errors for the embeddable service.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("printwatch: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("printwatch: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("printwatch: shutdown timeout")
)

// Wrap classifies err under kind, keeping both in the chain.
// It returns nil when err is nil.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", kind, op, err)
}

// Kind reports which error kind err belongs to, or nil if none.
func Kind(err error) error {
	for _, k := range []error{ErrConfiguration, ErrArchive, ErrDispatch, ErrFileSystem} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
