package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"launchpad-cli/internal/logx"
)

const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher reports, debounced, that something changed under one of the roots.
// Only the roots and their first-level directories are watched; bundles are
// never descended into.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	out      chan struct{}

	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// Watch starts watching roots until ctx is cancelled or Close is called.
// Missing roots are skipped.
func Watch(ctx context.Context, roots []string, bundleExt string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	ext := Options{BundleExt: bundleExt}.bundleExt()
	log := logx.Ctx(ctx)

	for _, root := range roots {
		for _, dir := range watchDirs(root, ext) {
			if err := fw.Add(dir); err != nil {
				logx.WithLocation(log, dir).Debug("watch add failed", "err", err)
			}
		}
	}
	if len(fw.WatchList()) == 0 {
		log.Warn("no scan roots could be watched")
	}

	w := &Watcher{fw: fw, debounce: debounce, out: make(chan struct{}, 1)}
	go w.loop(ctx)
	return w, nil
}

func watchDirs(root, ext string) []string {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil
	}
	dirs := []string{root}
	entries, err := os.ReadDir(root)
	if err != nil {
		return dirs
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ext) {
			continue
		}
		dirs = append(dirs, filepath.Join(root, name))
	}
	return dirs
}

// Changes yields one value per quiet period after filesystem activity.
func (w *Watcher) Changes() <-chan struct{} {
	return w.out
}

func (w *Watcher) loop(ctx context.Context) {
	log := logx.Ctx(ctx)
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			logx.WithLocation(log, ev.Name).Debug("root changed", "op", ev.Op.String())
			w.notify()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.fire)
		return
	}
	w.timer.Reset(w.debounce)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	select {
	case w.out <- struct{}{}:
	default:
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return nil
	}
	w.done = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fw.Close()
}
