package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// DefaultPollInterval matches the operator's expectation of "a few seconds".
const DefaultPollInterval = 5 * time.Second

// WatcherConfig contains configuration for the watch loop.
type WatcherConfig struct {
	Dir          string
	Filter       domain.Filter
	PollInterval time.Duration

	// IsolateFailures keeps the loop alive after a failed archive.
	// The default stops monitoring on the first failure.
	IsolateFailures bool
}

// ArchiveHandler processes one detected archive.
type ArchiveHandler interface {
	Handle(ctx context.Context, ev domain.ArchiveEvent) error
}

// Watcher polls a directory and hands newly arrived archives to a handler.
type Watcher struct {
	config  WatcherConfig
	handler ArchiveHandler
	sink    ports.ProgressSink
	logger  ports.Logger

	nudge <-chan struct{}
	now   func() time.Time
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(config WatcherConfig, handler ArchiveHandler, sink ports.ProgressSink, logger ports.Logger) *Watcher {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	return &Watcher{
		config:  config,
		handler: handler,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// SetNudge makes the watcher poll early whenever c delivers.
// Must be called before Run.
func (w *Watcher) SetNudge(c <-chan struct{}) {
	w.nudge = c
}

// Run captures the baseline listing and polls until ctx is canceled or a
// failure ends monitoring. Files present in the baseline are never processed.
//
// A listing failure always ends the loop. A pipeline failure ends it unless
// IsolateFailures is set. Either way exactly one failure line is reported.
// Cancellation returns ctx.Err() without a failure line.
func (w *Watcher) Run(ctx context.Context) error {
	observed, err := w.list()
	if err != nil {
		return w.fail(err)
	}

	w.sink.Report(fmt.Sprintf("Monitoring folder: %s", w.config.Dir))
	w.logger.Info("watch started",
		ports.Dir(w.config.Dir),
		ports.Duration("poll_interval", w.config.PollInterval),
		ports.Int("baseline", observed.Len()),
		ports.Bool("isolate_failures", w.config.IsolateFailures),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.config.PollInterval):
		case <-w.nudge:
			w.logger.Debug("early poll")
		}

		current, err := w.list()
		if err != nil {
			return w.fail(err)
		}

		for _, name := range current.NewArrivals(observed, w.config.Filter) {
			if err := w.handle(ctx, name); err != nil {
				return err
			}
		}

		observed = current
	}
}

// handle runs the handler for one arrival and applies the failure policy.
// A non-nil return ends the loop.
func (w *Watcher) handle(ctx context.Context, name string) error {
	ev := domain.NewArchiveEvent(w.config.Dir, name, w.now())
	w.sink.Report(fmt.Sprintf("New ZIP file detected: %s", ev.ArchivePath))
	w.logger.Info("archive detected",
		ports.ArchiveID(ev.ID),
		ports.Archive(ev.ArchivePath),
	)

	err := w.handler.Handle(ctx, ev)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return ctx.Err()
	}

	if w.config.IsolateFailures {
		w.sink.Report(fmt.Sprintf("Failed to process %s: %v", ev.Name(), err))
		w.logger.Error("archive failed",
			ports.ArchiveID(ev.ID),
			ports.Archive(ev.ArchivePath),
			ports.Err(err),
		)
		return nil
	}
	return w.fail(err)
}

func (w *Watcher) fail(err error) error {
	w.sink.Report(fmt.Sprintf("Monitoring error: %v", err))
	w.logger.Error("watch loop stopped", ports.Dir(w.config.Dir), ports.Err(err))
	return err
}

func (w *Watcher) list() (domain.Snapshot, error) {
	entries, err := os.ReadDir(w.config.Dir)
	if err != nil {
		return nil, domain.Wrap(domain.ErrFileSystem, "list "+w.config.Dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return domain.NewSnapshot(names), nil
}
