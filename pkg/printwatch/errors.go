package printwatch

import "github.com/bft-labs/printwatch/internal/domain"

// Error kinds. Use errors.Is to classify errors returned by a Service.
var (
	ErrConfiguration = domain.ErrConfiguration
	ErrArchive       = domain.ErrArchive
	ErrDispatch      = domain.ErrDispatch
	ErrFileSystem    = domain.ErrFileSystem

	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)
