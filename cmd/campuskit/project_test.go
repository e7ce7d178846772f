package main

// Notes:
// - loadProject: we test code and file projects, manifest errors and the
//   "not a project" cases through the returned errors.
// - scanAssets is covered through loadProject (dotfiles skipped, sorted names).
// - Title resolution order: manifest, <title>, <h1>, directory name.

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/campuskit/campuskit"
)

// ---------------------------------------------------------------------------
// TestLoadProject - Code projects
// ---------------------------------------------------------------------------

func TestLoadProject(t *testing.T) {
	t.Parallel()

	root := cellProject(t, t.TempDir())

	p, err := loadProject(root)
	if err != nil {
		t.Fatalf("loadProject: %v", err)
	}

	if p.Type != campuskit.ContentCode {
		t.Errorf("Type = %q, want CODE", p.Type)
	}
	if p.Name != "Cell Demo" {
		t.Errorf("Name = %q, want %q", p.Name, "Cell Demo")
	}
	if !strings.Contains(p.Bundle.Markup, "<h1>Cells</h1>") {
		t.Errorf("Markup not loaded: %q", p.Bundle.Markup)
	}
	if p.Bundle.Script != "console.log('cells');" {
		t.Errorf("Script = %q", p.Bundle.Script)
	}

	var names []string
	for _, a := range p.Assets {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{"img/cell.png", "notes.txt"}, names); diff != "" {
		t.Errorf("asset names mismatch (-want +got):\n%s", diff)
	}
	if p.Title() != "Cells" {
		t.Errorf("Title() = %q, want %q", p.Title(), "Cells")
	}
}

// ---------------------------------------------------------------------------
// TestLoadProject_Manifest - Manifest fields and validation
// ---------------------------------------------------------------------------

func TestLoadProject_Manifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    map[string]string
		wantErr  error
		wantType campuskit.ContentType
		title    string
	}{
		{
			name: "title and subject",
			files: map[string]string{
				"index.html":     "<h1>Ignored</h1>",
				"campuskit.yaml": "title: Mitosis\nsubject: Biology\n",
			},
			wantType: campuskit.ContentCode,
			title:    "Mitosis",
		},
		{
			name: "lowercase file type",
			files: map[string]string{
				"campuskit.yaml": "type: pdf\nfile: syllabus.pdf\n",
			},
			wantType: campuskit.ContentPDF,
			title:    "file project",
		},
		{
			name: "file type without file",
			files: map[string]string{
				"campuskit.yaml": "type: IMAGE\n",
			},
			wantErr: ErrManifest,
		},
		{
			name: "unknown type",
			files: map[string]string{
				"campuskit.yaml": "type: VIDEO\n",
			},
			wantErr: ErrManifest,
		},
		{
			name: "unknown field",
			files: map[string]string{
				"index.html":     "<p>x</p>",
				"campuskit.yaml": "titel: typo\n",
			},
			wantErr: ErrManifest,
		},
		{
			name: "manifest only",
			files: map[string]string{
				"campuskit.yaml": "title: Empty on purpose\n",
			},
			wantType: campuskit.ContentCode,
			title:    "Empty on purpose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := writeProject(t, t.TempDir(), "file project", tt.files)
			p, err := loadProject(root)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadProject: %v", err)
			}
			if p.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", p.Type, tt.wantType)
			}
			if p.Title() != tt.title {
				t.Errorf("Title() = %q, want %q", p.Title(), tt.title)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadProject_NotProject - Missing and empty directories
// ---------------------------------------------------------------------------

func TestLoadProject_NotProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := loadProject(filepath.Join(dir, "nope"))
		if !errors.Is(err, ErrNotProject) {
			t.Errorf("error = %v, want ErrNotProject", err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		root := writeProject(t, dir, "empty", nil)
		_, err := loadProject(root)
		if !errors.Is(err, ErrNotProject) {
			t.Errorf("error = %v, want ErrNotProject", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestExtractTitle - <title> first, then <h1>
// ---------------------------------------------------------------------------

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"title element", "<html><head><title> Cell  Biology </title></head></html>", "Cell Biology"},
		{"h1 fallback", "<h1>Photo<em>synthesis</em></h1>", "Photo synthesis"},
		{"title wins over h1", "<title>T</title><h1>H</h1>", "T"},
		{"empty title falls back", "<title> </title><h1>H</h1>", "H"},
		{"none", "<p>plain</p>", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := extractTitle(tt.markup); got != tt.want {
				t.Errorf("extractTitle(%q) = %q, want %q", tt.markup, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAssetURL - Base URL joining and file URL fallback
// ---------------------------------------------------------------------------

func TestAssetURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		asset   string
		want    string
	}{
		{"simple", "https://cdn.example/u1", "logo.png", "https://cdn.example/u1/logo.png"},
		{"trailing slash", "https://cdn.example/u1/", "logo.png", "https://cdn.example/u1/logo.png"},
		{"nested", "https://cdn.example", "img/cell.png", "https://cdn.example/img/cell.png"},
		{"escaped segment", "https://cdn.example", "my file.png", "https://cdn.example/my%20file.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := assetURL(tt.baseURL, tt.asset, "/unused"); got != tt.want {
				t.Errorf("assetURL() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("file URL without base", func(t *testing.T) {
		t.Parallel()

		abs := filepath.Join(t.TempDir(), "logo.png")
		got := assetURL("", "logo.png", abs)
		if !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, "logo.png") {
			t.Errorf("assetURL() = %q, want file:// URL ending in logo.png", got)
		}
	})
}
