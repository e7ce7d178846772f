package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Stub snapshotter and project builders
// ---------------------------------------------------------------------------

// stubSnapshotter returns fixed bytes instead of driving Chrome.
type stubSnapshotter struct {
	mu    sync.Mutex
	calls int
}

func (s *stubSnapshotter) Snapshot(_ context.Context, _ string, opts campuskit.ExportOptions) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if opts.Format == campuskit.FormatPNG {
		return []byte("\x89PNG stub"), nil
	}
	return []byte("%PDF-1.4 stub"), nil
}

func (s *stubSnapshotter) Close() error { return nil }

// testEnv returns an Environment writing to buffers, with a fixed clock and
// a stub snapshotter.
func testEnv(t *testing.T) (*Environment, *bytes.Buffer, *bytes.Buffer, *stubSnapshotter) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	snap := &stubSnapshotter{}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	env := &Environment{
		Now:            func() time.Time { return now },
		Stdout:         &stdout,
		Stderr:         &stderr,
		Config:         config.DefaultConfig(),
		NewSnapshotter: func() campuskit.Snapshotter { return snap },
	}
	return env, &stdout, &stderr, snap
}

// writeProject creates dir/name with the given files (relative slash paths).
func writeProject(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	root := filepath.Join(dir, name)
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	if len(files) == 0 {
		if err := os.MkdirAll(root, 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	return root
}

// cellProject is a code project with one nested and one top-level asset.
func cellProject(t *testing.T, dir string) string {
	t.Helper()
	return writeProject(t, dir, "Cell Demo", map[string]string{
		"index.html":          "<!DOCTYPE html><html><head><title>Cells</title></head><body><h1>Cells</h1><img src=\"assets/img/cell.png\"><a href=\"./assets/notes.txt\">notes</a></body></html>",
		"style.css":           "body { background: url(/assets/img/cell.png); }",
		"script.js":           "console.log('cells');",
		"assets/img/cell.png": "png",
		"assets/notes.txt":    "notes",
		"assets/.DS_Store":    "junk",
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
