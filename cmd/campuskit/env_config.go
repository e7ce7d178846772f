package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/campuskit/campuskit/internal/config"
	"github.com/campuskit/campuskit/internal/fileutil"
)

// defaultConfigName is looked up when neither --config nor CAMPUSKIT_CONFIG
// is given. A missing file is not an error in that case.
const defaultConfigName = "campuskit"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // CAMPUSKIT_CONFIG: config file name or path
	Addr       string        // CAMPUSKIT_ADDR: listen address
	Database   string        // CAMPUSKIT_DATABASE: SQLite file path
	BaseURL    string        // CAMPUSKIT_BASE_URL: public origin for asset URLs
	LogLevel   string        // CAMPUSKIT_LOG_LEVEL: debug, info, warn, error
	Owner      string        // CAMPUSKIT_OWNER: owner ID for import
	Timeout    time.Duration // CAMPUSKIT_TIMEOUT: export timeout
	Workers    int           // CAMPUSKIT_WORKERS: parallel renderers
}

// knownEnvVars lists valid CAMPUSKIT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CAMPUSKIT_CONFIG":    true,
	"CAMPUSKIT_ADDR":      true,
	"CAMPUSKIT_DATABASE":  true,
	"CAMPUSKIT_BASE_URL":  true,
	"CAMPUSKIT_LOG_LEVEL": true,
	"CAMPUSKIT_OWNER":     true,
	"CAMPUSKIT_TIMEOUT":   true,
	"CAMPUSKIT_WORKERS":   true,
	// Read by doctor
	"CAMPUSKIT_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("CAMPUSKIT_CONFIG"),
		Addr:       os.Getenv("CAMPUSKIT_ADDR"),
		Database:   os.Getenv("CAMPUSKIT_DATABASE"),
		BaseURL:    os.Getenv("CAMPUSKIT_BASE_URL"),
		LogLevel:   os.Getenv("CAMPUSKIT_LOG_LEVEL"),
		Owner:      os.Getenv("CAMPUSKIT_OWNER"),
	}

	if timeout := os.Getenv("CAMPUSKIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("CAMPUSKIT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CAMPUSKIT_* variables.
// Helps catch typos like CAMPUSKIT_DB instead of CAMPUSKIT_DATABASE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CAMPUSKIT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables that
// are set. Flags are merged afterwards, giving:
// CLI flags > env vars > config file > defaults
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Database != "" {
		cfg.Database.Path = env.Database
	}
	if env.BaseURL != "" {
		cfg.Server.BaseURL = env.BaseURL
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
}

// loadConfig resolves the config file (flag, then CAMPUSKIT_CONFIG, then an
// optional campuskit.yaml) and applies environment overrides. base is copied,
// never modified.
func loadConfig(flagName string, env *envConfig, base *config.Config) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		for _, p := range config.SearchPaths(defaultConfigName) {
			if fileutil.FileExists(p) {
				name = p
				break
			}
		}
	}

	var cfg *config.Config
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		if base == nil {
			base = config.DefaultConfig()
		}
		copied := *base
		cfg = &copied
	}

	applyEnvConfig(env, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveTimeoutWithEnv picks the export timeout.
// Priority: flag > env > config > library default.
func resolveTimeoutWithEnv(flagValue string, envValue, configValue time.Duration) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q (use e.g. 30s, 2m)", ErrInvalidTimeout, flagValue)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	if configValue > 0 {
		return configValue, nil
	}
	return defaultTimeout, nil
}

// defaultTimeout matches the library's export timeout.
const defaultTimeout = 30 * time.Second
