package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/printwatch/internal/cliconfig"
	"github.com/bft-labs/printwatch/internal/tui"
	"github.com/bft-labs/printwatch/pkg/log"
	"github.com/bft-labs/printwatch/pkg/printwatch"
)

// reportedError wraps a failure the operator has already seen on the feed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// run starts the watcher and a presentation goroutine and blocks until
// monitoring ends.
func run(ctx context.Context, cfg cliconfig.Config, exe string, logger *log.ZerologAdapter) error {
	svc, err := printwatch.New(printwatch.Config{
		WatchDir:        cfg.WatchDir,
		Printer:         cfg.Printer,
		Executable:      exe,
		StagingDir:      cfg.StagingDir,
		Retention:       cfg.Retention,
		PollInterval:    cfg.PollInterval,
		PrintTimeout:    cfg.PrintTimeout,
		StrictExit:      cfg.StrictExit,
		IsolateFailures: cfg.IsolateFailures,
		Notify:          cfg.Notify,
		CountPages:      cfg.CountPages,
		HistoryDB:       cfg.HistoryDB,
		Prefix:          cfg.Prefix,
		Suffix:          cfg.Suffix,
	}, printwatch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close history", log.Err(err))
		}
	}()

	if err := svc.Start(ctx); err != nil {
		return err
	}
	feed := svc.Feed()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if !cfg.TUI {
			printLines(os.Stdout, feed.Lines(), time.Now)
			return nil
		}
		err := tui.Run(gctx, feed.Lines(), tui.Header{
			WatchDir:  cfg.WatchDir,
			Printer:   cfg.Printer,
			Retention: cfg.Retention,
		})
		// Leaving the view ends the session.
		stopService(svc, logger)
		return err
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			logger.Info("received signal, stopping")
			stopService(svc, logger)
		case <-svc.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if err := svc.Wait(); err != nil {
		return reportedError{err: err}
	}
	if n := feed.Dropped(); n > 0 {
		logger.Warn("progress lines dropped", log.Int64("count", n))
	}
	return nil
}

func stopService(svc *printwatch.Service, logger log.Logger) {
	err := svc.Stop()
	if err == nil || errors.Is(err, printwatch.ErrNotRunning) {
		return
	}
	logger.Error("stop", log.Err(err))
}

// printLines writes every feed line with a wall-clock prefix until lines is closed.
func printLines(w io.Writer, lines <-chan string, now func() time.Time) {
	for line := range lines {
		fmt.Fprintf(w, "[%s] %s\n", now().Format("2006-01-02 15:04:05"), line)
	}
}
