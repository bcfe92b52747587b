// Package notify shortens the wait between polls when a matching archive shows
// up in the watched directory.
//
// It only ever triggers an early poll. Deciding what is new is still the
// snapshot diff's job, so a missed or duplicated file system event cannot
// cause an archive to be printed twice.
package notify

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/internal/ports"
)

// DefaultDebounce is how long the nudger waits after the last matching event.
// Browsers write downloads in several steps, so give the final rename time to land.
const DefaultDebounce = 750 * time.Millisecond

// Nudger watches a directory with fsnotify and signals on C when a matching
// file is created or renamed into place.
type Nudger struct {
	dir      string
	filter   domain.Filter
	debounce time.Duration
	logger   ports.Logger

	c  chan struct{}
	wg sync.WaitGroup

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// New creates a Nudger. A non-positive debounce uses DefaultDebounce.
func New(dir string, filter domain.Filter, debounce time.Duration, logger ports.Logger) *Nudger {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Nudger{
		dir:      dir,
		filter:   filter,
		debounce: debounce,
		logger:   logger,
		c:        make(chan struct{}, 1),
	}
}

// C delivers at most one pending nudge at a time.
func (n *Nudger) C() <-chan struct{} {
	return n.c
}

// Start begins watching. It returns an error if the directory cannot be watched.
func (n *Nudger) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(n.dir); err != nil {
		w.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	n.mu.Lock()
	n.cancel = cancel
	n.mu.Unlock()

	n.wg.Add(1)
	go n.loop(watchCtx, w)
	return nil
}

// Stop ends the watch and waits for the event loop to exit.
func (n *Nudger) Stop() {
	n.mu.Lock()
	cancel := n.cancel
	if n.timer != nil {
		n.timer.Stop()
	}
	n.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	n.wg.Wait()
}

func (n *Nudger) loop(ctx context.Context, w *fsnotify.Watcher) {
	defer n.wg.Done()
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if !n.filter.Match(filepath.Base(event.Name)) {
				continue
			}
			n.schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			n.logger.Warn("directory notify error", ports.Err(err))
		}
	}
}

func (n *Nudger) schedule() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.debounce, n.fire)
}

func (n *Nudger) fire() {
	select {
	case n.c <- struct{}{}:
	default:
	}
}
