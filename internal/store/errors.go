package store

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotFound          = errors.New("not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrSubjectRequired   = errors.New("subject is required")
	ErrOwnerRequired     = errors.New("owner is required")
	ErrFileRequired      = errors.New("file URL is required for file content")
	ErrAssetNameRequired = errors.New("asset name is required")
	ErrAssetURLRequired  = errors.New("asset URL is required")
	ErrInvalidPDF        = errors.New("invalid PDF")
)

// IsValidation reports whether err is caused by bad input rather than by the
// database.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrTitleRequired,
		ErrSubjectRequired,
		ErrOwnerRequired,
		ErrFileRequired,
		ErrAssetNameRequired,
		ErrAssetURLRequired,
		ErrInvalidPDF,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
