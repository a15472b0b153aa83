package fixture

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads an analysis file into a Store when it changes on disk.
// The parent directory is watched so editors that save by rename are seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	store    *Store
	log      *zap.Logger
	debounce time.Duration
	dirtyAt  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	reloads  int
	failures int
}

func NewWatcher(path string, debounce time.Duration, store *Store, log *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("fixture: nothing to watch for the embedded analysis")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		store:    store,
		log:      log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine. Calling it twice is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching analysis file", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.log.Warn("closing watcher", zap.Error(err))
	}
}

// Reloads returns how many reloads succeeded and failed.
func (w *Watcher) Reloads() (ok, failed int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads, w.failures
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(max(w.debounce/3, time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case now := <-tick.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("analysis file event", zap.Stringer("op", ev.Op))
	w.mu.Lock()
	w.dirtyAt = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	if w.dirtyAt.IsZero() || now.Sub(w.dirtyAt) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirtyAt = time.Time{}
	w.mu.Unlock()

	a, err := Load(w.path)
	w.mu.Lock()
	if err != nil {
		w.failures++
	} else {
		w.reloads++
	}
	w.mu.Unlock()

	if err != nil {
		// Keep serving the previous analysis.
		w.log.Warn("reloading analysis failed", zap.Error(err))
		return
	}
	w.store.Replace(a)
	w.log.Info("analysis reloaded", zap.String("id", a.ID), zap.Int("version", w.store.Version()))
}
