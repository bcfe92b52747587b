// Package exec runs the external print-capable executable.
package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// PrintFlag asks the executable to print the document and exit.
const PrintFlag = "/t"

// Config tunes how the executable is run.
type Config struct {
	// Timeout bounds one run. Zero waits forever.
	Timeout time.Duration

	// StrictExit turns a non-zero exit status into an error.
	StrictExit bool
}

// Dispatcher implements ports.Dispatcher with os/exec.
type Dispatcher struct {
	cfg    Config
	logger ports.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg Config, logger ports.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, logger: logger}
}

// Args returns the argument list passed to the executable for job.
func Args(job domain.PrintJob) []string {
	return []string{PrintFlag, job.DocumentPath, job.Printer}
}

// Dispatch runs `<executable> /t <document> <printer>` and waits for it to exit.
func (d *Dispatcher) Dispatch(ctx context.Context, job domain.PrintJob) (domain.DispatchResult, error) {
	var result domain.DispatchResult

	if _, err := os.Stat(job.Executable); err != nil {
		return result, domain.Wrap(domain.ErrDispatch, "stat "+job.Executable, err)
	}

	runCtx := ctx
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, job.Executable, Args(job)...)
	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)

	if runCtx.Err() != nil {
		result.ExitCode = -1
		return result, domain.Wrap(domain.ErrDispatch, "run "+job.Executable, runCtx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, domain.Wrap(domain.ErrDispatch, "start "+job.Executable, err)
	}

	if !result.OK() {
		d.logger.Warn("print executable exited non-zero",
			ports.Document(job.DocumentPath),
			ports.Printer(job.Printer),
			ports.Int("exit_code", result.ExitCode),
		)
		if d.cfg.StrictExit {
			return result, domain.Wrap(domain.ErrDispatch, "run "+job.Executable,
				fmt.Errorf("exit status %d", result.ExitCode))
		}
	}

	return result, nil
}

var _ ports.Dispatcher = (*Dispatcher)(nil)
