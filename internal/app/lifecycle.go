package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// ShutdownTimeout bounds how long Stop waits for the watcher goroutine.
// A print executable without a timeout can outlive it.
const ShutdownTimeout = 30 * time.Second

// State represents the lifecycle state of the watch service.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateWatching
	StateStopping
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateWatching:
		return "Watching"
	case StateStopping:
		return "Stopping"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// transitions lists the allowed next states for each state.
var transitions = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateWatching, StateStopping, StateFailed},
	StateWatching: {StateStopping, StateFailed},
	StateStopping: {StateStopped, StateFailed},
	StateFailed:   {StateStarting, StateStopped},
}

// transitionError is returned for a disallowed transition out of from.
func transitionError(from State) error {
	if from == StateStopped || from == StateFailed {
		return domain.ErrNotRunning
	}
	return domain.ErrAlreadyRunning
}

// Lifecycle manages the state machine around the watcher goroutine.
type Lifecycle struct {
	mu       sync.RWMutex
	state    State
	reason   string
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   ports.Logger
	observer StateObserver
}

// StateObserver is called after every successful transition.
type StateObserver interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a lifecycle in StateStopped. observer may be nil.
func NewLifecycle(logger ports.Logger, observer StateObserver) *Lifecycle {
	return &Lifecycle{
		state:    StateStopped,
		logger:   logger,
		observer: observer,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Reason returns the reason given for the last transition.
func (l *Lifecycle) Reason() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reason
}

// TransitionTo moves to next if the transition table allows it.
// The state is left unchanged on error.
func (l *Lifecycle) TransitionTo(next State, reason string) error {
	l.mu.Lock()
	prev := l.state
	if !allowed(prev, next) {
		l.mu.Unlock()
		return transitionError(prev)
	}
	l.state = next
	l.reason = reason
	l.mu.Unlock()

	if l.observer != nil {
		l.observer.OnStateChange(prev, next, reason)
	}
	l.logger.Debug("state transition",
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)
	return nil
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanStart returns true if Start() can be called.
func (l *Lifecycle) CanStart() bool {
	return allowed(l.State(), StateStarting)
}

// CanStop returns true if Stop() can be called.
func (l *Lifecycle) CanStop() bool {
	s := l.State()
	return s == StateStarting || s == StateWatching
}

// SetCancel stores the cancel function used by Cancel.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel cancels the watcher context, if one was stored.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Go runs fn on a tracked goroutine.
func (l *Lifecycle) Go(fn func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fn()
	}()
}

// Wait blocks until every goroutine started with Go has returned.
func (l *Lifecycle) Wait() {
	l.wg.Wait()
}

// WaitWithTimeout waits for tracked goroutines, giving up after timeout.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("shutdown timeout, watcher still busy",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
