// Package watcher reports changes to the open document file made by other
// processes, debounced.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/pubsub"
)

// EventType classifies a WatcherEvent.
type EventType int

const (
	// DocumentChanged means the file was written or replaced.
	DocumentChanged EventType = iota
	// DocumentRemoved means the file was deleted or renamed away.
	DocumentRemoved
	// WatcherError carries an fsnotify error. Watching continues.
	WatcherError
)

func (t EventType) String() string {
	switch t {
	case DocumentChanged:
		return "changed"
	case DocumentRemoved:
		return "removed"
	case WatcherError:
		return "error"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// WatcherEvent is published on the watcher's broker.
type WatcherEvent struct {
	Type  EventType
	Path  string
	Error error
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig watches path with a 500ms debounce.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 500 * time.Millisecond,
	}
}

// Watcher monitors a single document file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[WatcherEvent]
	done      chan struct{}
	stopOnce  sync.Once

	mu          sync.Mutex
	ignoreUntil time.Time
}

// New creates a watcher for cfg.Path. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("resolve %s: %w", cfg.Path, err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      path,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[WatcherEvent](),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker events are published on.
func (w *Watcher) Broker() *pubsub.Broker[WatcherEvent] {
	return w.broker
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start watches the directory containing the document, which also catches
// atomic replacements of the file.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	go w.loop()
	log.Debug(log.CatWatcher, "Watching document", "path", w.path)
	return nil
}

// Stop terminates the watcher and closes the broker.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.broker.Close()
	})
	return err
}

// Ignore drops events for the given duration, so the editor's own saves are
// not reported back to it.
func (w *Watcher) Ignore(d time.Duration) {
	w.mu.Lock()
	w.ignoreUntil = time.Now().Add(d)
	w.mu.Unlock()
}

func (w *Watcher) ignoring() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().Before(w.ignoreUntil)
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending *WatcherEvent
	)
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			typ, relevant := w.classify(event)
			if !relevant || w.ignoring() {
				continue
			}
			pending = &WatcherEvent{Type: typ, Path: w.path}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC():
			if pending != nil {
				log.Debug(log.CatWatcher, "Document changed on disk", "path", w.path, "type", pending.Type)
				w.broker.Publish(pubsub.UpdatedEvent, *pending)
				pending = nil
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err, "path", w.path)
			w.broker.Publish(pubsub.ErrorEvent, WatcherEvent{Type: WatcherError, Path: w.path, Error: err})

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) classify(event fsnotify.Event) (EventType, bool) {
	if filepath.Clean(event.Name) != w.path {
		return 0, false
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return DocumentChanged, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return DocumentRemoved, true
	default:
		return 0, false
	}
}

// Listen subscribes to the watcher for the lifetime of ctx.
func (w *Watcher) Listen(ctx context.Context) *pubsub.ContinuousListener[WatcherEvent] {
	return pubsub.NewContinuousListener(ctx, w.broker)
}
