package fileutil

// Notes:
// - WriteTempFile close/write error branches need a failing filesystem and are
//   not exercised; the happy path and validation path are.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidateExtension
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ext     string
		wantErr error
	}{
		{"html", "html", nil},
		{"png", "png", nil},
		{"empty", "", ErrExtensionEmpty},
		{"slash", "a/b", ErrExtensionPathTraversal},
		{"backslash", `a\b`, ErrExtensionPathTraversal},
		{"null byte", "a\x00", ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateExtension(tt.ext); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.ext, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<!DOCTYPE html><p>hi</p>"
	path, cleanup, err := WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error: %v", err)
	}

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q should end with .html", path)
	}
	if !strings.Contains(filepath.Base(path), "campuskit-") {
		t.Errorf("path %q should carry campuskit- prefix", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cleanup should remove %q", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, _, err := WriteTempFile("x", "../html")
	if !errors.Is(err, ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
	if !DirExists(dir) {
		t.Error("DirExists(dir) = false, want true")
	}
	if DirExists(file) {
		t.Error("DirExists(file) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestReadOptional
// ---------------------------------------------------------------------------

func TestReadOptional(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "style.css")
	if err := os.WriteFile(file, []byte("body{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ReadOptional(file)
	if err != nil || got != "body{}" {
		t.Errorf("ReadOptional(existing) = %q, %v", got, err)
	}

	got, err = ReadOptional(filepath.Join(dir, "script.js"))
	if err != nil || got != "" {
		t.Errorf("ReadOptional(missing) = %q, %v; want empty, nil", got, err)
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL / TestToFileURL
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"default", false},
		{"prod-config", false},
		{"./campuskit.yaml", true},
		{"/etc/campuskit.yaml", true},
		{`C:\cfg\x.yaml`, true},
	}
	for _, tt := range tests {
		if got := IsFilePath(tt.in); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"https://cdn.example/pic.png", true},
		{"http://localhost:8080", true},
		{"file:///tmp/x", false},
		{"assets/pic.png", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}
	if got := ToFileURL("/srv/project/assets/pic.png"); got != "file:///srv/project/assets/pic.png" {
		t.Errorf("ToFileURL() = %q", got)
	}
}
