package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/hints"
	"github.com/campuskit/campuskit/internal/server"
)

// defaultDotenv is loaded when present; a missing file is only an error
// when named explicitly.
const defaultDotenv = ".env"

// runServe runs the web hub until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := loadDotenv(flags.dotenv); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg, env.Config)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.db != "" {
		cfg.Database.Path = flags.db
	}

	level := cfg.Log.Level
	if flags.common.verbose {
		level = "debug"
	}
	if flags.common.quiet {
		level = "error"
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := openStore(ctx, cfg.Database.Path, env)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.Render.ExportEnabled {
		timeout, err := resolveTimeoutWithEnv("", envCfg.Timeout, cfg.Render.Timeout)
		if err != nil {
			return err
		}
		pool := campuskit.NewRendererPool(campuskit.ResolvePoolSize(cfg.Render.Workers), env.rendererOptions(timeout)...)
		defer pool.Close()
		opts = append(opts, server.WithRenderers(pool))
	}

	srv, err := server.New(ctx, cfg, st, opts...)
	if err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v%s", ErrListen, cfg.Server.Addr, err, hints.ForListen(cfg.Server.Addr))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Serving on http://%s\n", ln.Addr())
	}
	return srv.Serve(ctx, ln)
}

// loadDotenv loads name into the process environment without overriding
// variables that are already set.
func loadDotenv(name string) error {
	if name == "" {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		if name == defaultDotenv && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: loading %s: %v", ErrUsage, name, err)
	}
	return nil
}

// newLogger builds a JSON production logger at level.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("%w: log level %q", ErrUsage, level)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
