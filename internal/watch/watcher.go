// Package watch turns raw filesystem notifications into debounced,
// filtered change events. Self-originated events (the patch engine's own
// writes) are dropped here, before they can reach the debounce window.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/youruser/anycoder/internal/logging"
)

var log = logging.Get()

// Watcher watches a directory tree recursively and delivers debounced
// change notifications on Changes.
type Watcher struct {
	fsw       *fsnotify.Watcher
	filter    *Filter
	guard     *Guard
	debouncer *Debouncer
	changes   chan string
}

// NewWatcher sets up recursive watches under root. Failure to establish
// the watch (missing root, permissions) is returned to the caller and is
// fatal at startup: a partially functioning watcher is worse than none.
func NewWatcher(root string, filter *Filter, guard *Guard, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		filter:  filter,
		guard:   guard,
		changes: make(chan string, 128),
	}
	w.debouncer = NewDebouncer(delay, func(path string) {
		w.changes <- path
	})

	// fsnotify is not recursive: add every non-ignored directory.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if !filter.ShouldTrack(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	return w, nil
}

// Changes delivers debounced paths that passed the filter and the guard.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run consumes raw events until the watcher is closed. Per-event problems
// are logged and skipped; they never stop the loop.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	path := event.Name

	if !w.filter.ShouldTrack(path) {
		return
	}

	// Directories created after startup need their own watch.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				log.Error("adding watch for %s: %v", path, err)
			}
			return
		}
	}

	if w.guard.IsSelf(path) {
		log.Event("self", path)
		return
	}

	log.Event(event.Op.String(), path)
	w.debouncer.Notify(path)
}

// Close stops the event loop and cancels pending debounce timers.
func (w *Watcher) Close() {
	w.debouncer.Stop()
	w.fsw.Close()
}
