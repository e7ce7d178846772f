package main

import (
	"io"
	"os"
	"time"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// Config is the base configuration used when no config file is found.
	Config *config.Config
	// NewSnapshotter replaces headless Chrome for exports. nil = Chrome.
	NewSnapshotter func() campuskit.Snapshotter
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}

// rendererOptions returns the options every Renderer of a command is built with.
func (e *Environment) rendererOptions(timeout time.Duration) []campuskit.Option {
	opts := []campuskit.Option{campuskit.WithTimeout(timeout)}
	if e.NewSnapshotter != nil {
		opts = append(opts, campuskit.WithSnapshotter(e.NewSnapshotter()))
	}
	return opts
}
