package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no project directory specified")
	ErrNotProject         = errors.New("not a project directory")
	ErrReadProject        = errors.New("failed to read project")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrOutputCollision    = errors.New("output path collision")
	ErrManifest           = errors.New("invalid project manifest")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrOpenStore          = errors.New("failed to open content store")
	ErrListen             = errors.New("failed to listen")
)
