package wishlist

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of write events into one reload. The
// store rewrites both files per mutation, so a single board edit can emit
// several events in quick succession.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the store when its collection files change on disk,
// picking up manual edits to the board made outside the process.
type Watcher struct {
	store   *Store
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher over the store's data directory.
func NewWatcher(store *Store, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(store.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch data dir: %w", err)
	}

	w := &Watcher{
		store:   store,
		logger:  logger,
		watcher: fsw,
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("wishlist watcher error", "error", err)
		}
	}
}

// relevant filters events down to completed writes of the collection files.
// The store's own atomic persists surface as renames here too; reloading
// state the process just wrote is a harmless no-op.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == singleFile || name == multiFile
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, func() {
		if err := w.store.Reload(); err != nil {
			w.logger.Warn("wishlist reload failed", "error", err)
			return
		}
		single, multi := w.store.Snapshot()
		w.logger.Info("wishlist reloaded from disk",
			"single", len(single),
			"multi", len(multi),
		)
	})
}
