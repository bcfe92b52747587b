package ports

import (
	"context"

	"github.com/bft-labs/printwatch/internal/domain"
)

// Dispatcher sends a document to a printer through the print executable.
type Dispatcher interface {
	// Dispatch runs the executable for job and blocks until it exits.
	// Returns an error wrapping domain.ErrDispatch when the executable cannot be
	// launched. A non-zero exit status is reported in the result and is only an
	// error when the implementation is configured to be strict.
	Dispatch(ctx context.Context, job domain.PrintJob) (domain.DispatchResult, error)
}
