package config

import (
	"context"
	"os"
	"sync"
	"time"
)

// defaultPollInterval matches the teacher's config watcher default: no
// fsnotify dependency appears anywhere in the retrieval pack, so change
// detection is stdlib os.Stat mtime polling.
const defaultPollInterval = 500 * time.Millisecond

// Event describes a detected change to the watched file.
type Event struct {
	Path string
	Time time.Time
}

// Handler is called (on the watcher's own goroutine) when the watched
// file's mtime changes.
type Handler func(Event)

// Watcher polls a single file's modification time and invokes a
// handler when it changes, including on first appearance after having
// been absent.
type Watcher struct {
	path     string
	interval time.Duration
	handler  Handler

	mu       sync.Mutex
	running  bool
	lastMod  time.Time
	lastSeen bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for path using the default poll
// interval. The initial mtime is captured immediately so a change made
// before Start is still detected.
func NewWatcher(path string, handler Handler) *Watcher {
	w := &Watcher{
		path:     path,
		interval: defaultPollInterval,
		handler:  handler,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
		w.lastSeen = true
	}
	return w
}

// Start begins polling on a background goroutine. Calling Start twice
// without an intervening Stop is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.pollLoop()
}

// Stop cancels polling and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) pollLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			w.mu.Lock()
			w.lastSeen = false
			w.mu.Unlock()
		}
		return
	}

	w.mu.Lock()
	changed := !w.lastSeen || !info.ModTime().Equal(w.lastMod)
	w.lastMod = info.ModTime()
	w.lastSeen = true
	w.mu.Unlock()

	if changed && w.handler != nil {
		w.handler(Event{Path: w.path, Time: info.ModTime()})
	}
}
