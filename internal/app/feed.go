package app

import (
	"sync"
	"sync/atomic"

	"github.com/bft-labs/printwatch/internal/ports"
)

// DefaultFeedSize is the number of progress lines buffered for the presentation layer.
const DefaultFeedSize = 256

// Feed is the one-way progress channel from the watcher to the presentation
// layer. Report never blocks: when the reader falls behind, lines are dropped
// and counted.
type Feed struct {
	ch      chan string
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewFeed creates a Feed buffering up to size lines.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{ch: make(chan string, size)}
}

// Report queues line for the presentation layer.
func (f *Feed) Report(line string) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		f.dropped.Add(1)
		return
	}
	select {
	case f.ch <- line:
	default:
		f.dropped.Add(1)
	}
}

// Lines returns the receive side. It is closed by Close.
func (f *Feed) Lines() <-chan string {
	return f.ch
}

// Dropped returns how many lines were discarded.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

// Close ends the feed. Further reports are dropped. Safe to call twice.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	close(f.ch)
}

// SinkFunc adapts a function to ports.ProgressSink.
type SinkFunc func(line string)

// Report calls fn(line).
func (fn SinkFunc) Report(line string) {
	fn(line)
}

// multiSink fans out a line to several sinks.
type multiSink []ports.ProgressSink

func (m multiSink) Report(line string) {
	for _, s := range m {
		s.Report(line)
	}
}

// Tee returns a sink that reports to every non-nil sink in order.
func Tee(sinks ...ports.ProgressSink) ports.ProgressSink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

var (
	_ ports.ProgressSink = (*Feed)(nil)
	_ ports.ProgressSink = SinkFunc(nil)
)
