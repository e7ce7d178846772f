package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/campuskit/campuskit/internal/fileutil"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 300 * time.Millisecond

// watch re-renders projects whose files change until ctx is done.
func (r *projectRenderer) watch(ctx context.Context, dirs []string, common commonFlags, env *Environment) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	roots := make(map[string]string, len(dirs)) // absolute dir -> argument
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadProject, err)
		}
		roots[abs] = dir
		if err := addTree(watcher, abs); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	var outDir string
	if r.outDir != "" {
		outDir, _ = filepath.Abs(r.outDir)
	}

	if !common.quiet {
		fmt.Fprintf(env.Stderr, "Watching %d project(s), press Ctrl+C to stop\n", len(dirs))
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if outDir != "" && isWithin(outDir, event.Name) {
				continue
			}
			root := projectFor(roots, event.Name)
			if root == "" {
				continue
			}
			if event.Has(fsnotify.Create) && fileutil.DirExists(event.Name) {
				_ = addTree(watcher, event.Name)
			}
			pending[root] = true
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "warning: watcher: %v\n", err)

		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for root := range pending {
				batch = append(batch, roots[root])
			}
			clear(pending)
			results := r.renderBatch(ctx, batch)
			printResults(results, common.quiet, common.verbose, env)
		}
	}
}

// addTree watches dir and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// projectFor returns the watched root containing path, or "".
func projectFor(roots map[string]string, path string) string {
	for root := range roots {
		if isWithin(root, path) {
			return root
		}
	}
	return ""
}

// isWithin reports whether path is dir or below it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
