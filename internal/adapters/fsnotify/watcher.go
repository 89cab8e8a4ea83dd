// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a set of files through their parent directories, since editors
// and Word replace files by renaming a temporary copy over them, and
// debounces bursts of events so one save produces one callback.
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/remark/internal/ports"
)

// DefaultDebounce is the quiet period after the last event on a file before
// onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// Temporary files written next to watched files while saving.
var ignorePrefixes = []string{"~$", ".~lock."}

var ignoreSuffixes = []string{".swp", ".tmp", "~"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
	debounce time.Duration
	timers   map[string]*time.Timer
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		done:     make(chan struct{}),
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// SetDebounce changes the quiet period. Call before Watch.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Watch starts monitoring paths, each of which must be an existing file.
// onChange is called with the absolute path of each changed file once its
// events have been quiet for the debounce period.
func (w *Watcher) Watch(paths []string, onChange func(filePath string)) error {
	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", abs)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := filepath.Clean(event.Name)
				if !watched[path] || shouldIgnorePath(path) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(path, onChange)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are dropped; fsnotify keeps delivering events after them.

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)starts path's debounce timer.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scheduleLocked(path, onChange)
}

// scheduleLocked requires w.mu. A timer that fired while blocked on w.mu
// after being replaced finds a different timer in w.timers and does nothing.
func (w *Watcher) scheduleLocked(path string, onChange func(string)) {
	if w.stopped {
		return
	}
	if old, ok := w.timers[path]; ok {
		old.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.timers[path] == t
		if current {
			delete(w.timers, path)
		}
		fire := current && !w.stopped
		w.mu.Unlock()
		if fire {
			onChange(path)
		}
	})
	w.timers[path] = t
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath returns true for editor and Office temporary files.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	for _, p := range ignorePrefixes {
		if strings.HasPrefix(base, p) {
			return true
		}
	}
	for _, s := range ignoreSuffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	return false
}
