package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/campuskit/campuskit/internal/fileutil"
	"github.com/campuskit/campuskit/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength     = 255
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096
	MaxSiteNameLength = 100
	MaxSandboxLength  = 200
	MaxWorkers        = 32
)

// Log levels accepted by log.level.
var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds the settings for the CLI and the rendering host.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Render   RenderConfig   `yaml:"render"`
	Sandbox  SandboxConfig  `yaml:"sandbox"`
	Log      LogConfig      `yaml:"log"`
	Assets   AssetsConfig   `yaml:"assets"`
	Site     SiteConfig     `yaml:"site"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BaseURL         string        `yaml:"baseURL"` // Public origin, used for asset URLs on import
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DatabaseConfig locates the SQLite content store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RenderConfig controls document rendering and snapshot export.
type RenderConfig struct {
	Timeout       time.Duration `yaml:"timeout"`       // Per export
	Workers       int           `yaml:"workers"`       // 0 = auto
	ExportEnabled bool          `yaml:"exportEnabled"` // Serve PDF/PNG snapshots
}

// SandboxConfig overrides the iframe sandbox attribute per mode.
// Empty fields keep the built-in policy.
type SandboxConfig struct {
	Preview   string `yaml:"preview"`
	Card      string `yaml:"card"`
	Published string `yaml:"published"`
}

// LogConfig defines host logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// AssetsConfig defines where host template overrides live.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// SiteConfig holds what visitors see in the page chrome.
type SiteConfig struct {
	Name  string `yaml:"name"`
	Guide string `yaml:"guide"` // Guide document name
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "campuskit.db"},
		Render: RenderConfig{
			Timeout:       30 * time.Second,
			ExportEnabled: true,
		},
		Log:  LogConfig{Level: "info"},
		Site: SiteConfig{Name: "Campus Hub", Guide: "guide"},
	}
}

// Validate checks field lengths and enum values.
// Called by LoadConfig, and by callers that build a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.baseURL", c.Server.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: server.baseURL must be an absolute http(s) URL, got %q", ErrInvalidValue, c.Server.BaseURL)
		}
	}
	for field, d := range map[string]time.Duration{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"render.timeout":         c.Render.Timeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, field, d)
		}
	}

	if err := validateFieldLength("database.path", c.Database.Path, MaxPathLength); err != nil {
		return err
	}

	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}

	if err := validateFieldLength("sandbox.preview", c.Sandbox.Preview, MaxSandboxLength); err != nil {
		return err
	}
	if err := validateFieldLength("sandbox.card", c.Sandbox.Card, MaxSandboxLength); err != nil {
		return err
	}
	if err := validateFieldLength("sandbox.published", c.Sandbox.Published, MaxSandboxLength); err != nil {
		return err
	}
	if strings.Contains(c.Sandbox.Card, "allow-same-origin") {
		return fmt.Errorf("%w: sandbox.card must not allow same-origin", ErrInvalidValue)
	}

	if c.Log.Level != "" && !contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level must be one of %s, got %q", ErrInvalidValue, strings.Join(logLevels, ", "), c.Log.Level)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.name", c.Site.Name, MaxSiteNameLength); err != nil {
		return err
	}
	return validateFieldLength("site.guide", c.Site.Guide, MaxSiteNameLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; anything else is a name
// searched in standard locations. Missing keys keep their defaults.
// Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// current directory, then ~/.config/campuskit/, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "campuskit", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
