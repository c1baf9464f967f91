package kilobite

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDelay = 200 * time.Millisecond

// Watch re-syncs the content whenever a file under the content directory
// changes, coalescing bursts of events into one reload. The site
// configuration is never reloaded. Watch blocks until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := os.MkdirAll(a.Config.ContentDir, 0o755); err != nil {
		return err
	}
	if err := watchTree(w, a.Config.ContentDir); err != nil {
		return err
	}
	a.Log.Info("watching content", zap.String("dir", a.Config.ContentDir))

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignoredEvent(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, ev.Name); err != nil {
						a.Log.Warn("watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			a.Log.Debug("content changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(reloadDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.Log.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			if err := a.Reload(); err != nil {
				a.Log.Error("content reload failed", zap.Error(err))
			}
		}
	}
}

// watchTree adds dir and every directory below it to w.
func watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

// ignoredEvent filters editor noise: chmod-only events, dotfiles and swap or
// backup files.
func ignoredEvent(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}
