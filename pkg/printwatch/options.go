package printwatch

import (
	"github.com/bft-labs/printwatch/internal/app"
	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
	"github.com/bft-labs/printwatch/pkg/log"
)

// Re-exported types for implementing custom collaborators.
type (
	Logger         = log.Logger
	Dispatcher     = ports.Dispatcher
	PrintJob       = domain.PrintJob
	DispatchResult = domain.DispatchResult
	HistoryEntry   = ports.LedgerEntry
	Feed           = app.Feed
)

// Option configures optional behavior of a Service.
type Option func(*options)

type options struct {
	logger       Logger
	eventHandler EventHandler
	progress     func(line string)
	dispatcher   Dispatcher
	feedSize     int
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a structured logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler receives lifecycle transitions.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithProgress calls fn synchronously for every progress line, in addition to
// the buffered Feed. fn must return quickly.
func WithProgress(fn func(line string)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithDispatcher replaces the executable-based dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithFeedSize sets how many progress lines the Feed buffers.
func WithFeedSize(n int) Option {
	return func(o *options) {
		o.feedSize = n
	}
}
