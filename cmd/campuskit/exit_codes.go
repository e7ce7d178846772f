package main

import (
	"errors"
	"os"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/config"
	"github.com/campuskit/campuskit/internal/store"
)

// Exit codes for the campuskit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, manifest or input
	ExitIO      = 3 // Missing project, unwritable output, store or listener failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, campuskit.ErrBrowserConnect) ||
		errors.Is(err, campuskit.ErrPageCreate) ||
		errors.Is(err, campuskit.ErrPageLoad) ||
		errors.Is(err, campuskit.ErrPDFGeneration) ||
		errors.Is(err, campuskit.ErrScreenshot) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrManifest) ||
		errors.Is(err, ErrOutputCollision) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, campuskit.ErrInvalidMode) ||
		errors.Is(err, campuskit.ErrInvalidContentType) ||
		errors.Is(err, campuskit.ErrInvalidViewport) ||
		errors.Is(err, campuskit.ErrInvalidExportFormat) ||
		errors.Is(err, campuskit.ErrEmptyDocument) ||
		store.IsValidation(err) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNotProject) ||
		errors.Is(err, ErrReadProject) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrOpenStore) ||
		errors.Is(err, ErrListen) {
		return ExitIO
	}

	return ExitGeneral
}
