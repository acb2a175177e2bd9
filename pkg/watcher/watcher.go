// Package watcher reloads the opened model file when it changes on
// disk, so edits in an external tool show up without restarting the
// viewer.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a single model file and fires a callback after the
// file settles. Writes are debounced because slicers and CAD tools
// often emit several write events while exporting.
type Watcher struct {
	notifier *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	path     string
	onChange func(string)
	timer    *time.Timer
}

// New creates a watcher with the given debounce interval
func New(debounce time.Duration) (*Watcher, error) {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		notifier: notifier,
		debounce: debounce,
	}
	go w.run()
	return w, nil
}

// Watch replaces the watched file. The callback receives the path of
// the changed file once it has been stable for the debounce interval.
func (w *Watcher) Watch(path string, onChange func(string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path != "" {
		w.notifier.Remove(w.path)
	}
	// Watch the directory, not the file: editors and exporters
	// commonly replace the file via rename, which drops a watch that
	// targets the file itself.
	if err := w.notifier.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	w.path = absPath
	w.onChange = onChange
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.notifier.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.handleChange(event.Name)
			}

		case err, ok := <-w.notifier.Errors:
			if !ok {
				return
			}
			fmt.Printf("watcher error: %v\n", err)
		}
	}
}

// handleChange restarts the debounce timer for events on the watched
// file; events for siblings in the same directory are ignored.
func (w *Watcher) handleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" || filepath.Clean(path) != w.path {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}

	watched, callback := w.path, w.onChange
	w.timer = time.AfterFunc(w.debounce, func() {
		callback(watched)
	})
}

// Close stops watching. A pending debounce timer may still fire.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.notifier.Close()
}
