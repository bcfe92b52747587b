package printwatch

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/printwatch/internal/adapters/archive"
	"github.com/bft-labs/printwatch/internal/adapters/exec"
	"github.com/bft-labs/printwatch/internal/adapters/fs"
	"github.com/bft-labs/printwatch/internal/adapters/notify"
	"github.com/bft-labs/printwatch/internal/adapters/pdf"
	"github.com/bft-labs/printwatch/internal/adapters/sqlite"
	"github.com/bft-labs/printwatch/internal/app"
	"github.com/bft-labs/printwatch/internal/ports"
)

// Service watches a directory and prints the documents of every new archive.
// Use New() to create an instance, then Start() to begin watching.
type Service struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	watcher   *app.Watcher
	nudger    *notify.Nudger
	ledger    *sqlite.Ledger
	logger    ports.Logger

	mu     sync.RWMutex
	feed   *app.Feed
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// New creates a Service in StateStopped.
// It opens the history database when one is configured; call Close to release it.
func New(cfg Config, opts ...Option) (*Service, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	retention, err := fs.NewRetention(cfg.Retention, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := o.dispatcher
	if dispatcher == nil {
		dispatcher = exec.NewDispatcher(exec.Config{
			Timeout:    cfg.PrintTimeout,
			StrictExit: cfg.StrictExit,
		}, logger)
	}

	s := &Service{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(logger, observer{handler: o.eventHandler}),
		logger:    logger,
		feed:      app.NewFeed(o.feedSize),
	}

	var pipelineOpts []app.PipelineOption
	if cfg.CountPages {
		pipelineOpts = append(pipelineOpts, app.WithPageCounter(pdf.NewPageCounter()))
	}
	if cfg.HistoryDB != "" {
		ledger, err := sqlite.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		s.ledger = ledger
		pipelineOpts = append(pipelineOpts, app.WithLedger(ledger))
	}

	pipeline := app.NewPipeline(app.PipelineConfig{
		Printer:    cfg.Printer,
		Executable: cfg.Executable,
		StagingDir: cfg.StagingDir,
	}, archive.NewUnpacker(logger), dispatcher, retention, s, logger, pipelineOpts...)

	s.watcher = app.NewWatcher(app.WatcherConfig{
		Dir:             cfg.WatchDir,
		Filter:          cfg.filter(),
		PollInterval:    cfg.PollInterval,
		IsolateFailures: cfg.IsolateFailures,
	}, pipeline, s, logger)

	if cfg.Notify {
		s.nudger = notify.New(cfg.WatchDir, cfg.filter(), notify.DefaultDebounce, logger)
		s.watcher.SetNudge(s.nudger.C())
	}

	return s, nil
}

// Report forwards one progress line to the current feed and the progress callback.
func (s *Service) Report(line string) {
	s.mu.RLock()
	feed := s.feed
	s.mu.RUnlock()

	feed.Report(line)
	if s.opts.progress != nil {
		s.opts.progress(line)
	}
}

// Feed returns the progress feed of the current or most recent run.
// Its channel is closed when that run ends.
func (s *Service) Feed() *Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed
}

// Done is closed when the current run ends, whether by Stop or by failure.
// It returns nil before the first Start.
func (s *Service) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Err returns the error that ended the most recent run, or nil.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Start begins watching in the background and returns immediately.
// The listing baseline is taken by the background goroutine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lifecycle.SetCancel(cancel)

	if s.done != nil {
		// Previous run's feed is closed; give this run a fresh one.
		s.feed = app.NewFeed(s.opts.feedSize)
	}
	s.done = make(chan struct{})
	s.err = nil

	if s.nudger != nil {
		if err := s.nudger.Start(runCtx); err != nil {
			// Polling alone still works.
			s.logger.Warn("file notifications unavailable, polling only", ports.Err(err))
		}
	}

	done := s.done
	feed := s.feed
	s.lifecycle.Go(func() {
		defer close(done)
		defer feed.Close()
		if s.nudger != nil {
			defer s.nudger.Stop()
		}

		if err := s.lifecycle.TransitionTo(app.StateWatching, "watch loop started"); err != nil {
			s.logger.Debug("watch loop not started", ports.Err(err))
			return
		}

		err := s.watcher.Run(runCtx)
		if err == nil || errors.Is(err, context.Canceled) {
			// Parent context canceled without Stop.
			if s.lifecycle.State() == app.StateWatching {
				_ = s.lifecycle.TransitionTo(app.StateStopping, "context canceled")
				_ = s.lifecycle.TransitionTo(app.StateStopped, "context canceled")
			}
			return
		}

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		_ = s.lifecycle.TransitionTo(app.StateFailed, err.Error())
	})

	return nil
}

// Stop cancels the watch loop and waits up to app.ShutdownTimeout for it to
// return. An in-flight executable run is killed by the cancellation.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	err := s.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateFailed, "shutdown timeout")
		return err
	}
	_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	return nil
}

// Wait blocks until the current run ends and returns its error.
// Cancellation through Stop or the Start context is not an error.
func (s *Service) Wait() error {
	done := s.Done()
	if done == nil {
		return ErrNotRunning
	}
	<-done
	return s.Err()
}

// Status returns the current lifecycle state.
func (s *Service) Status() State {
	return convertState(s.lifecycle.State())
}

// History returns up to limit recently dispatched documents, newest first.
// It returns nil when no history database is configured.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.Recent(ctx, limit)
}

// Close releases the history database. The Service must be stopped.
func (s *Service) Close() error {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Close()
}

var _ ports.ProgressSink = (*Service)(nil)
