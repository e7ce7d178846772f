package campuskit

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidMode         = errors.New("invalid render mode")
	ErrInvalidContentType  = errors.New("invalid content type")
	ErrInvalidExportFormat = errors.New("invalid export format")
	ErrInvalidViewport     = errors.New("invalid viewport size")
	ErrEmptyDocument       = errors.New("document cannot be empty")
	ErrPoolClosed          = errors.New("renderer pool is closed")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScreenshot     = errors.New("screenshot failed")
)
