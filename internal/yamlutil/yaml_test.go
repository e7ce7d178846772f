package yamlutil_test

// Notes:
// - Encode error branch is not tested: goccy/go-yaml only fails on types such
//   as channels or funcs, which no caller passes.

import (
	"errors"
	"strings"
	"testing"

	"github.com/campuskit/campuskit/internal/yamlutil"
)

type manifest struct {
	Title   string `yaml:"title"`
	Subject string `yaml:"subject"`
	Publish bool   `yaml:"publish"`
}

// ---------------------------------------------------------------------------
// TestDecode - Lenient decoding
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		want    manifest
	}{
		{
			name: "valid manifest",
			data: []byte("title: Pendulum\nsubject: Physics\npublish: true"),
			dest: &manifest{},
			want: manifest{Title: "Pendulum", Subject: "Physics", Publish: true},
		},
		{
			name: "unknown keys ignored",
			data: []byte("title: Cells\nextra: ignored"),
			dest: &manifest{},
			want: manifest{Title: "Cells"},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &manifest{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Decode(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			got := *tt.dest.(*manifest)
			if got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Unknown key rejection
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	var m manifest
	err := yamlutil.DecodeStrict([]byte("title: x\ntitel: typo"), &m)
	if err == nil {
		t.Fatal("DecodeStrict() expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "yamlutil:") {
		t.Errorf("error %q should carry yamlutil prefix", err)
	}
}

func TestDecode_InputTooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("title: " + strings.Repeat("a", yamlutil.MaxInputSize))
	var m manifest
	if err := yamlutil.Decode(data, &m); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Decode() error = %v, want ErrInputTooLarge", err)
	}
}

func TestEncode_RoundTripsManifest(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Encode(manifest{Title: "Waves", Subject: "Physics"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(string(out), "title: Waves") {
		t.Errorf("Encode() = %q, want title line", out)
	}
}
