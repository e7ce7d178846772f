package config

// Notes:
// - LoadConfig by name searches the current directory; tests that rely on it
//   chdir and therefore do not run in parallel
// - Duration fields are decoded from Go duration strings ("30s")

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// DefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Render.Timeout != 30*time.Second {
		t.Errorf("Render.Timeout = %v, want 30s", cfg.Render.Timeout)
	}
	if !cfg.Render.ExportEnabled {
		t.Error("Render.ExportEnabled = false, want true")
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "https base URL",
			mutate: func(c *Config) { c.Server.BaseURL = "https://hub.example.edu" },
		},
		{
			name:    "relative base URL",
			mutate:  func(c *Config) { c.Server.BaseURL = "/files" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "ftp base URL",
			mutate:  func(c *Config) { c.Server.BaseURL = "ftp://hub.example.edu" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Render.Timeout = -time.Second },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Render.Workers = MaxWorkers + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Render.Workers = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "log level case insensitive",
			mutate: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:    "card sandbox with same origin",
			mutate:  func(c *Config) { c.Sandbox.Card = "allow-scripts allow-same-origin" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "site name too long",
			mutate:  func(c *Config) { c.Site.Name = strings.Repeat("x", MaxSiteNameLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "sandbox too long",
			mutate:  func(c *Config) { c.Sandbox.Published = strings.Repeat("x", MaxSandboxLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("at limit: unexpected error %v", err)
	}
	err := validateFieldLength("f.g", "12345678901", 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("over limit: error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "f.g") {
		t.Errorf("error %q should name the field", err)
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Path(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "hub.yaml", `
server:
  addr: ":9090"
  baseURL: "https://hub.example.edu"
  readTimeout: 5s
database:
  path: /var/lib/campuskit/hub.db
render:
  workers: 4
  exportEnabled: false
sandbox:
  published: "allow-scripts allow-forms"
log:
  level: debug
site:
  name: Biology Hub
`)

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := DefaultConfig()
	want.Server.Addr = ":9090"
	want.Server.BaseURL = "https://hub.example.edu"
	want.Server.ReadTimeout = 5 * time.Second
	want.Database.Path = "/var/lib/campuskit/hub.db"
	want.Render.Workers = 4
	want.Render.ExportEnabled = false
	want.Sandbox.Published = "allow-scripts allow-forms"
	want.Log.Level = "debug"
	want.Site.Name = "Biology Hub"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		arg     string
		wantErr error
	}{
		{"empty name", "", ErrEmptyConfigName},
		{"missing path", filepath.Join(dir, "missing.yaml"), ErrConfigNotFound},
		{"missing name", "no-such-config-name-xyz", ErrConfigNotFound},
		{"unknown key", writeConfig(t, dir, "typo.yaml", "server:\n  adr: \":1\"\n"), ErrConfigParse},
		{"bad yaml", writeConfig(t, dir, "bad.yaml", "server: [\n"), ErrConfigParse},
		{"invalid value", writeConfig(t, dir, "level.yaml", "log:\n  level: loud\n"), ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := LoadConfig(tt.arg); !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig(%q) error = %v, want %v", tt.arg, err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_ByNameInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "campus.yml", "site:\n  name: From Name\n")
	t.Chdir(dir)

	got, err := LoadConfig("campus")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.Site.Name != "From Name" {
		t.Errorf("Site.Name = %q, want %q", got.Site.Name, "From Name")
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("hub")
	if len(paths) < 2 || paths[0] != "hub.yaml" || paths[1] != "hub.yml" {
		t.Errorf("SearchPaths() = %v, want local .yaml then .yml first", paths)
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), "campuskit/") {
			t.Errorf("user path %q not under campuskit/", p)
		}
	}
}
