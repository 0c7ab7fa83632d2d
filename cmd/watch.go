// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/luthersystems/jsltcheck/analysis"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// watch lints args, then re-lints them after every change to a .jslt file
// below the watched directories until ctx is done.
func (r *lintRunner) watch(ctx context.Context, args []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	for _, root := range watchRoots(args) {
		if err := r.watchRecursive(w, root); err != nil {
			return err
		}
	}

	r.run(ctx, args, nil)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if r.handleEvent(w, event) {
				fire = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.WithError(err).Warn("watch error")
		case <-fire:
			fire = nil
			r.loader.Reset()
			r.log.Debug("change detected, linting again")
			r.run(ctx, args, nil)
		}
	}
}

// handleEvent reports whether event should trigger a new lint run.  New
// directories are added to the watch.
func (r *lintRunner) handleEvent(w *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := r.watchRecursive(w, event.Name); err != nil {
				r.log.WithError(err).WithField("path", event.Name).Warn("failed to watch new directory")
			}
			return true
		}
	}
	if filepath.Ext(event.Name) != analysis.FileExt || r.excludes.matches(event.Name) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (r *lintRunner) watchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (d.Name()[0] == '.' || r.excludes.matches(path)) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
