package printwatch

import "github.com/bft-labs/printwatch/internal/app"

// State is the lifecycle state of a Service.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateWatching
	StateStopping
	StateFailed
)

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

// StateChangeEvent describes one lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives lifecycle notifications. Calls happen synchronously on
// the goroutine performing the transition.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(StateChangeEvent)

func (f EventHandlerFunc) OnStateChange(e StateChangeEvent) { f(e) }

type observer struct {
	handler EventHandler
}

func (o observer) OnStateChange(previous, current app.State, reason string) {
	if o.handler == nil {
		return
	}
	o.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStarting:
		return StateStarting
	case app.StateWatching:
		return StateWatching
	case app.StateStopping:
		return StateStopping
	case app.StateFailed:
		return StateFailed
	default:
		return StateStopped
	}
}
