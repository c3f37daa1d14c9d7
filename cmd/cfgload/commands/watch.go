package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cyrhla/loader"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 100 * time.Millisecond

// watchSources calls reload whenever one of sources changes, until ctx is
// done. reload returns the sources to watch from then on; a failed reload
// is logged and the previous set kept.
func watchSources(ctx context.Context, sources []string, reload func() ([]string, error), logger loader.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()

	watched := make(map[string]bool)
	files := make(map[string]bool)
	track := func(sources []string) {
		clear(files)
		for _, s := range sources {
			files[filepath.Clean(s)] = true
			dir := filepath.Dir(s)
			if watched[dir] {
				continue
			}
			if err := w.Add(dir); err != nil {
				logger.Warn("cannot watch directory", "dir", dir, "error", err)
				continue
			}
			watched[dir] = true
		}
	}
	track(sources)
	logger.Info("watching for changes", "files", len(files))

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if files[filepath.Clean(ev.Name)] {
				logger.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
				timer.Reset(reloadDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		case <-timer.C:
			next, err := reload()
			if err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			track(next)
		}
	}
}
