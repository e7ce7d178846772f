package main

// Notes:
// - runImport writes to a temporary SQLite file which is reopened with the
//   store package to check what was stored.
// - PDF page counting is tested in the store package; here file projects use
//   an image and a remote URL.
// - Owner resolution reads CAMPUSKIT_OWNER, so those tests cannot use t.Parallel().

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/store"
)

func openImported(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// ---------------------------------------------------------------------------
// TestRunImport_CodeProject - Content and assets are stored
// ---------------------------------------------------------------------------

func TestRunImport_CodeProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := cellProject(t, dir)
	db := filepath.Join(dir, "data", "hub.db")
	env, stdout, _, _ := testEnv(t)

	args := []string{root, "--owner", "u1", "--db", db, "--subject", "Biology", "--publish", "--base-url", "https://cdn.example/u1"}
	if err := runImport(context.Background(), args, env); err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if !strings.Contains(stdout.String(), "-> /biology/cells (published)") {
		t.Errorf("stdout = %q, want imported route", stdout.String())
	}

	st := openImported(t, db)
	ctx := context.Background()

	c, err := st.GetPublished(ctx, "biology", "cells")
	if err != nil {
		t.Fatalf("GetPublished: %v", err)
	}
	if c.OwnerID != "u1" || c.Type != campuskit.ContentCode {
		t.Errorf("content = %+v", c)
	}
	// Stored buffers keep their assets/ references; resolution happens on render.
	if !strings.Contains(c.Markup, `src="assets/img/cell.png"`) {
		t.Errorf("Markup = %q, want unresolved reference", c.Markup)
	}

	assets, err := st.ListAssets(ctx, "u1")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	type row struct{ Name, URL, Folder string }
	var got []row
	for _, a := range assets {
		got = append(got, row{a.Name, a.URL, a.Folder})
	}
	want := []row{
		{"img/cell.png", "https://cdn.example/u1/img/cell.png", "img"},
		{"notes.txt", "https://cdn.example/u1/notes.txt", store.DefaultFolder},
	}
	sortRows := cmpopts.SortSlices(func(a, b row) bool { return a.Name < b.Name })
	if diff := cmp.Diff(want, got, sortRows); diff != "" {
		t.Errorf("assets mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestRunImport_Manifest - Manifest subject, draft state and file projects
// ---------------------------------------------------------------------------

func TestRunImport_Manifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	draft := writeProject(t, dir, "draft", map[string]string{
		"index.html":     "<h1>Work in progress</h1>",
		"campuskit.yaml": "subject: History\npublished: false\n",
	})
	photo := writeProject(t, dir, "photo", map[string]string{
		"campuskit.yaml": "title: Field trip\nsubject: Geography\ntype: IMAGE\nfile: photo.png\npublished: true\n",
		"photo.png":      "png",
	})
	remote := writeProject(t, dir, "remote", map[string]string{
		"campuskit.yaml": "title: Reading list\nsubject: History\ntype: document\nfile: https://files.example/list.docx\n",
	})
	db := filepath.Join(dir, "hub.db")
	env, _, _, _ := testEnv(t)

	args := []string{draft, photo, remote, "--owner", "u2", "--db", db, "--base-url", "https://cdn.example/u2", "-q"}
	if err := runImport(context.Background(), args, env); err != nil {
		t.Fatalf("runImport: %v", err)
	}

	st := openImported(t, db)
	ctx := context.Background()

	items, err := st.ListByOwner(ctx, "u2")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	byTitle := make(map[string]store.Content)
	for _, c := range items {
		byTitle[c.Title] = c
	}
	if len(byTitle) != 3 {
		t.Fatalf("got %d items, want 3: %v", len(byTitle), items)
	}

	if c := byTitle["Work in progress"]; c.Published || c.Subject != "History" {
		t.Errorf("draft = %+v, want unpublished History item", c)
	}

	img := byTitle["Field trip"]
	if !img.Published || img.Type != campuskit.ContentImage {
		t.Errorf("image = %+v", img)
	}
	if img.FileURL != "https://cdn.example/u2/photo.png" || img.FileName != "photo.png" || img.MimeType != "image/png" {
		t.Errorf("image file = %q %q %q", img.FileURL, img.FileName, img.MimeType)
	}

	doc := byTitle["Reading list"]
	if doc.FileURL != "https://files.example/list.docx" || doc.Type != campuskit.ContentDocument {
		t.Errorf("document = %+v", doc)
	}
}

// ---------------------------------------------------------------------------
// TestRunImport_Errors
// ---------------------------------------------------------------------------

func TestRunImport_Errors(t *testing.T) {
	t.Setenv("CAMPUSKIT_OWNER", "")

	dir := t.TempDir()
	root := cellProject(t, dir)
	db := filepath.Join(dir, "hub.db")
	missingFile := writeProject(t, dir, "broken", map[string]string{
		"campuskit.yaml": "title: Broken\nsubject: Art\ntype: IMAGE\nfile: gone.png\n",
	})

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no input", []string{"--owner", "u1"}, ErrNoInput},
		{"no owner", []string{root, "--db", db}, ErrUsage},
		{"no subject", []string{root, "--owner", "u1", "--db", db}, store.ErrSubjectRequired},
		{"missing local file", []string{missingFile, "--owner", "u1", "--db", db}, ErrReadProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, _, _ := testEnv(t)
			err := runImport(context.Background(), tt.args, env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunImport_RejectedLeavesNoAssets - Retried failures do not pile up rows
// ---------------------------------------------------------------------------

func TestRunImport_RejectedLeavesNoAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := writeProject(t, dir, "untitled", map[string]string{
		"index.html":     `<img src="assets/pic.png">`,
		"assets/pic.png": "png",
	})
	db := filepath.Join(dir, "hub.db")
	args := []string{root, "--owner", "u3", "--db", db}

	for i := range 3 {
		env, _, _, _ := testEnv(t)
		if err := runImport(context.Background(), args, env); !errors.Is(err, store.ErrSubjectRequired) {
			t.Fatalf("attempt %d: error = %v, want ErrSubjectRequired", i+1, err)
		}
	}

	st := openImported(t, db)
	ctx := context.Background()
	assets, err := st.ListAssets(ctx, "u3")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	items, err := st.ListByOwner(ctx, "u3")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(assets) != 0 || len(items) != 0 {
		t.Errorf("after rejected imports: %d assets, %d contents, want none", len(assets), len(items))
	}

	env, _, _, _ := testEnv(t)
	if err := runImport(ctx, append(args, "--subject", "Art"), env); err != nil {
		t.Fatalf("runImport with subject: %v", err)
	}
	assets, err = st.ListAssets(ctx, "u3")
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "pic.png" {
		t.Errorf("assets = %+v, want only pic.png", assets)
	}
}

func TestRunImport_OwnerFromEnv(t *testing.T) {
	t.Setenv("CAMPUSKIT_OWNER", "env-owner")

	dir := t.TempDir()
	root := cellProject(t, dir)
	db := filepath.Join(dir, "hub.db")
	env, _, _, _ := testEnv(t)

	if err := runImport(context.Background(), []string{root, "--db", db, "--subject", "Biology"}, env); err != nil {
		t.Fatalf("runImport: %v", err)
	}

	items, err := openImported(t, db).ListByOwner(context.Background(), "env-owner")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(items) != 1 || items[0].Published {
		t.Errorf("items = %+v, want one draft", items)
	}
}

// ---------------------------------------------------------------------------
// TestAssetFolder / TestMimeType
// ---------------------------------------------------------------------------

func TestAssetFolder(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"logo.png":          store.DefaultFolder,
		"img/logo.png":      "img",
		"fonts/woff/a.woff": "fonts",
	}
	for name, want := range tests {
		if got := assetFolder(name); got != want {
			t.Errorf("assetFolder(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestMimeType(t *testing.T) {
	t.Parallel()

	if got := mimeType("LOGO.PNG"); got != "image/png" {
		t.Errorf("mimeType(LOGO.PNG) = %q, want image/png", got)
	}
	if got := mimeType("data.unknownext"); got != "application/octet-stream" {
		t.Errorf("mimeType(data.unknownext) = %q, want application/octet-stream", got)
	}
}
