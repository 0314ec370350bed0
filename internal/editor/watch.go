package editor

import (
	"context"
	"time"

	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/pubsub"
	"github.com/fontedit/fontedit/internal/watcher"
)

// startWatching reports changes to path made by other processes. Watch
// failures are logged and otherwise ignored.
func (s *Session) startWatching(path string) {
	if !s.watch {
		return
	}
	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: s.debounce})
	if err != nil {
		log.Warn(log.CatWatcher, "Cannot watch document", "path", path, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Broker().Subscribe(ctx)
	if err := w.Start(); err != nil {
		cancel()
		_ = w.Stop()
		log.Warn(log.CatWatcher, "Cannot watch document", "path", path, "error", err)
		return
	}
	s.watcher = w
	s.stopForward = cancel
	go s.forward(events)
}

func (s *Session) forward(events <-chan pubsub.Event[watcher.WatcherEvent]) {
	for ev := range events {
		switch ev.Payload.Type {
		case watcher.DocumentChanged, watcher.DocumentRemoved:
			s.publish(Event{
				Type:    EventDocumentChangedOnDisk,
				Path:    ev.Payload.Path,
				Removed: ev.Payload.Type == watcher.DocumentRemoved,
			})
		case watcher.WatcherError:
			log.Warn(log.CatWatcher, "Watch error", "path", ev.Payload.Path, "error", ev.Payload.Error)
		}
	}
}

func (s *Session) stopWatching() {
	if s.watcher == nil {
		return
	}
	s.stopForward()
	if err := s.watcher.Stop(); err != nil {
		log.Warn(log.CatWatcher, "Stopping watcher failed", "path", s.watcher.Path(), "error", err)
	}
	s.watcher = nil
	s.stopForward = nil
}

// ignoreOwnWrite suppresses the events caused by the session's own save.
func (s *Session) ignoreOwnWrite() {
	if s.watcher != nil {
		s.watcher.Ignore(s.debounce + time.Second)
	}
}
