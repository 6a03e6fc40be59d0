// Package watcher reports which decompile roots gained or lost source files.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 500 * time.Millisecond

// TreeWatcher watches every directory below a set of roots and reports, after
// a quiet period, the roots in which source files were created, removed or
// renamed.
type TreeWatcher struct {
	watcher      *fsnotify.Watcher
	roots        []string
	extensions   map[string]bool
	debounceTime time.Duration
	logger       *slog.Logger

	callback func(roots []string)
	ctx      context.Context
	cancel   context.CancelFunc

	changed   map[string]bool // roots with pending changes
	changedMu sync.Mutex

	debounceTimer *time.Timer
	timerMu       sync.Mutex

	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewTreeWatcher creates a watcher for roots. Only files with one of the
// given extensions (e.g. ".java") count as changes. A zero debounce uses
// DefaultDebounce.
func NewTreeWatcher(roots []string, extensions []string, debounce time.Duration, logger *slog.Logger) (*TreeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[ext] = true
	}

	tw := &TreeWatcher{
		watcher:      w,
		extensions:   extMap,
		debounceTime: debounce,
		logger:       logger,
		changed:      make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	for _, root := range roots {
		root = filepath.Clean(root)
		tw.roots = append(tw.roots, root)
		if err := tw.addDirectoriesRecursively(root); err != nil {
			w.Close()
			return nil, err
		}
	}

	return tw, nil
}

// Start begins watching. callback receives the changed roots, each once per batch.
func (tw *TreeWatcher) Start(ctx context.Context, callback func(roots []string)) error {
	if callback == nil {
		return nil
	}

	tw.callback = callback
	tw.ctx, tw.cancel = context.WithCancel(ctx)

	go tw.watch()
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (tw *TreeWatcher) Stop() error {
	var err error
	tw.stopOnce.Do(func() {
		if tw.cancel != nil {
			tw.cancel()
			<-tw.doneCh
		} else {
			close(tw.doneCh)
		}
		err = tw.watcher.Close()
	})
	return err
}

func (tw *TreeWatcher) watch() {
	defer close(tw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-tw.ctx.Done():
			tw.stopDebounceTimer()
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}

			// New directories are watched too; files moved in with them count.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := tw.addDirectoriesRecursively(event.Name); err != nil {
						tw.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					tw.markChanged(event.Name, fireCh)
					continue
				}
			}

			if !tw.shouldProcessEvent(event) {
				continue
			}
			tw.markChanged(event.Name, fireCh)

		case <-fireCh:
			tw.flush()

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (tw *TreeWatcher) markChanged(path string, fireCh chan struct{}) {
	root, ok := tw.rootOf(path)
	if !ok {
		return
	}

	tw.changedMu.Lock()
	tw.changed[root] = true
	tw.changedMu.Unlock()

	tw.resetDebounceTimer(fireCh)
}

func (tw *TreeWatcher) flush() {
	tw.changedMu.Lock()
	if len(tw.changed) == 0 {
		tw.changedMu.Unlock()
		return
	}
	roots := make([]string, 0, len(tw.changed))
	for root := range tw.changed {
		roots = append(roots, root)
	}
	tw.changed = make(map[string]bool)
	tw.changedMu.Unlock()

	tw.callback(roots)
}

// rootOf returns the longest watched root containing path.
func (tw *TreeWatcher) rootOf(path string) (string, bool) {
	best := ""
	for _, root := range tw.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			if len(root) > len(best) {
				best = root
			}
		}
	}
	return best, best != ""
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (tw *TreeWatcher) resetDebounceTimer(fireCh chan struct{}) {
	tw.timerMu.Lock()
	defer tw.timerMu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (tw *TreeWatcher) stopDebounceTimer() {
	tw.timerMu.Lock()
	defer tw.timerMu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
		tw.debounceTimer = nil
	}
}

// shouldProcessEvent reports whether an event changes the set of source files.
// Writes do not; files are re-read on every search.
func (tw *TreeWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return tw.extensions[filepath.Ext(event.Name)]
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (tw *TreeWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If it's the root path, fail immediately
			if path == rootPath {
				return err
			}
			tw.logger.Warn("error accessing path", "path", path, "error", err)
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if err := tw.watcher.Add(path); err != nil {
			tw.logger.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
}
