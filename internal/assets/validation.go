package assets

import (
	"fmt"
	"regexp"
)

// maxAssetNameLength bounds names taken from configuration.
const maxAssetNameLength = 64

var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that name is a bare identifier that is safe to use
// as a filename: letters, digits, hyphen and underscore only. Separators and
// dots are rejected so a name cannot traverse directories or change the
// extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
