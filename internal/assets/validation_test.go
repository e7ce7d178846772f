package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "site", false},
		{"hyphen and underscore", "dark-mode_v2", false},
		{"mixed case digits", "Guide2", false},
		{"empty", "", true},
		{"forward slash", "styles/site", true},
		{"backslash", `styles\site`, true},
		{"parent traversal", "../secret", true},
		{"extension", "site.css", true},
		{"hidden file", ".env", true},
		{"space", "my style", true},
		{"non ascii", "guía", true},
		{"too long", strings.Repeat("a", maxAssetNameLength+1), true},
		{"at limit", strings.Repeat("a", maxAssetNameLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error = %v", tt.input, err)
			}
		})
	}
}
