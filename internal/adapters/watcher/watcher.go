package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"diagindex/internal/adapters/filesystem"
	"diagindex/internal/domain"
	"diagindex/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before a rebuild
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc is called after a burst of changes settles
type RebuildFunc func(ctx context.Context) error

// Watcher triggers rebuilds when indexed documents under a root change.
// Rebuilds run on the Run goroutine, one at a time.
type Watcher struct {
	root     string
	debounce time.Duration
	rebuild  RebuildFunc
	watcher  *fsnotify.Watcher
}

// New creates a watcher for root. Directories are registered recursively.
func New(root string, debounce time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     filesystem.ExpandHome(root),
		debounce: debounce,
		rebuild:  rebuild,
		watcher:  fw,
	}

	if err := w.addRecursive(w.root); err != nil {
		fw.Close()
		return nil, err
	}

	return w, nil
}

// Close stops watching and releases resources
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run processes events until ctx is cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	// Stopped until the first relevant event arrives
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				logger.Error("rebuild failed: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handle registers new directories and reports whether event concerns an
// indexed document
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				logger.Warn("cannot watch %s: %v", event.Name, err)
			}
			return false
		}
	}

	if _, ok := domain.KindForPath(event.Name); !ok {
		return false
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	logger.Debug("change: %s", event)
	return true
}

// addRecursive adds dir and all its subdirectories to the watch list
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}
