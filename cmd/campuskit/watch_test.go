package main

// Notes:
// - isWithin, projectFor and addTree need no event timing and are tested
//   directly.
// - The end-to-end test waits on writer notifications, not sleeps: it edits
//   style.css once "Watching" is printed and waits for the next "Created"
//   line, with a generous deadline for slow filesystems.

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
)

// notifyWriter signals ch whenever a write contains match.
type notifyWriter struct {
	match string
	ch    chan struct{}
}

func newNotifyWriter(match string) *notifyWriter {
	return &notifyWriter{match: match, ch: make(chan struct{}, 1)}
}

func (w *notifyWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), w.match) {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

// ---------------------------------------------------------------------------
// TestIsWithin / TestProjectFor
// ---------------------------------------------------------------------------

func TestIsWithin(t *testing.T) {
	t.Parallel()

	dir := filepath.FromSlash("/a/b")
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"dir itself", "/a/b", true},
		{"child", "/a/b/style.css", true},
		{"nested child", "/a/b/assets/img/cell.png", true},
		{"parent", "/a", false},
		{"sibling through ..", "/a/b/../c", false},
		{"shared prefix", "/a/bc", false},
		{"shared prefix child", "/a/bc/index.html", false},
		{"dotted child name", "/a/b/..hidden", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isWithin(dir, filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("isWithin(%q, %q) = %v, want %v", dir, tt.path, got, tt.want)
			}
		})
	}
}

func TestProjectFor(t *testing.T) {
	t.Parallel()

	roots := map[string]string{
		filepath.FromSlash("/work/demo"):  "demo",
		filepath.FromSlash("/work/cells"): "../cells",
	}
	tests := []struct {
		path string
		want string
	}{
		{"/work/demo/index.html", "/work/demo"},
		{"/work/cells/assets/x.png", "/work/cells"},
		{"/work/demo2/index.html", ""},
		{"/work", ""},
	}
	for _, tt := range tests {
		got := projectFor(roots, filepath.FromSlash(tt.path))
		want := ""
		if tt.want != "" {
			want = filepath.FromSlash(tt.want)
		}
		if got != want {
			t.Errorf("projectFor(%q) = %q, want %q", tt.path, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestAddTree - Every visible directory is watched
// ---------------------------------------------------------------------------

func TestAddTree(t *testing.T) {
	t.Parallel()

	root := writeProject(t, t.TempDir(), "demo", map[string]string{
		"index.html":          "<h1>Demo</h1>",
		"assets/img/logo.png": "png",
		".git/HEAD":           "ref: main",
	})

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := addTree(w, root); err != nil {
		t.Fatalf("addTree: %v", err)
	}

	got := w.WatchList()
	slices.Sort(got)
	want := []string{
		root,
		filepath.Join(root, "assets"),
		filepath.Join(root, "assets", "img"),
	}
	slices.Sort(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WatchList mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestRunRender_Watch - An edited stylesheet is re-rendered
// ---------------------------------------------------------------------------

func TestRunRender_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := cellProject(t, dir)
	out := filepath.Join(dir, "out")
	env, _, _, _ := testEnv(t)
	watching := newNotifyWriter("Watching 1 project(s)")
	created := newNotifyWriter("Created ")
	env.Stderr = watching
	env.Stdout = created

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runRender(ctx, []string{root, "-o", out, "--watch"}, env)
	}()

	select {
	case <-watching.ch:
	case <-ctx.Done():
		t.Fatal("watcher never started")
	}
	// The initial render printed before watching began.
	select {
	case <-created.ch:
	default:
	}

	css := "body { color: rebeccapurple; }"
	if err := os.WriteFile(filepath.Join(root, "style.css"), []byte(css), 0o644); err != nil {
		t.Fatalf("write style.css: %v", err)
	}

	select {
	case <-created.ch:
	case <-ctx.Done():
		t.Fatal("project was not re-rendered after style.css changed")
	}

	doc := readFile(t, filepath.Join(out, "cell-demo.html"))
	if !strings.Contains(doc, css) {
		t.Errorf("re-rendered document missing new stylesheet:\n%s", doc)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("runRender --watch returned %v after cancel, want nil", err)
	}
}
