package campuskit

import (
	"fmt"
	"strings"
	"time"
)

// SourceBundle is the author-editable unit. An empty field means "no content".
type SourceBundle struct {
	Markup string
	Styles string
	Script string
}

// IsEmpty reports whether all three buffers are empty.
func (b SourceBundle) IsEmpty() bool {
	return b.Markup == "" && b.Styles == "" && b.Script == ""
}

// Asset is an uploaded file referenced from a bundle as assets/<Name>.
// CreatedAt decides between assets that share a name: the newest wins.
type Asset struct {
	Name      string
	URL       string
	CreatedAt time.Time
}

// ContentType is the kind of a published item.
type ContentType string

// Content types.
const (
	ContentCode     ContentType = "CODE"
	ContentPDF      ContentType = "PDF"
	ContentDocument ContentType = "DOCUMENT"
	ContentImage    ContentType = "IMAGE"
)

// ContentTypes lists every content type.
var ContentTypes = []ContentType{ContentCode, ContentPDF, ContentDocument, ContentImage}

// ParseContentType parses s case-insensitively.
// Returns ErrInvalidContentType for anything outside the closed set.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case ContentCode, ContentPDF, ContentDocument, ContentImage:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidContentType, s)
}

// IsFile reports whether the content is an uploaded file rather than code.
func (t ContentType) IsFile() bool {
	switch t {
	case ContentPDF, ContentDocument, ContentImage:
		return true
	case ContentCode:
		return false
	}
	return false
}

// Mode selects how a bundle is turned into a document.
type Mode int

// Render modes.
const (
	// ModePreview is the author's live preview. Assets are resolved when given.
	ModePreview Mode = iota
	// ModePublished is the public page.
	ModePublished
	// ModeCard is the published page scaled down for a listing card, with
	// clicks and form submits cancelled.
	ModeCard
)

var modeNames = map[Mode]string{
	ModePreview:   "preview",
	ModePublished: "published",
	ModeCard:      "card",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode parses a mode name such as "published".
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (must be preview, published, or card)", ErrInvalidMode, s)
}

// Input contains the data for a single render.
type Input struct {
	Bundle SourceBundle
	Assets []Asset // Owner's assets, fetched once by the caller
	Title  string  // Optional, escaped into <title>
	Mode   Mode
}

// RenderResult contains the assembled document.
type RenderResult struct {
	HTML []byte
}

// ExportFormat selects the snapshot format.
type ExportFormat int

// Export formats.
const (
	FormatPDF ExportFormat = iota
	FormatPNG
)

func (f ExportFormat) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatPNG:
		return "png"
	}
	return fmt.Sprintf("ExportFormat(%d)", int(f))
}

// Default PNG viewport, a common laptop screen.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	maxViewportDimension  = 10000
)

// ExportOptions configures Export.
type ExportOptions struct {
	Format ExportFormat
	Width  int  // PNG viewport width in CSS pixels, 0 = default
	Height int  // PNG viewport height in CSS pixels, 0 = default
	Full   bool // PNG: capture the full scrollable page
}

// Validate checks format and viewport bounds.
func (o ExportOptions) Validate() error {
	if o.Format != FormatPDF && o.Format != FormatPNG {
		return fmt.Errorf("%w: %d", ErrInvalidExportFormat, int(o.Format))
	}
	if o.Width < 0 || o.Width > maxViewportDimension || o.Height < 0 || o.Height > maxViewportDimension {
		return fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidViewport, o.Width, o.Height, maxViewportDimension)
	}
	return nil
}

func (o ExportOptions) viewport() (int, int) {
	w, h := o.Width, o.Height
	if w == 0 {
		w = DefaultViewportWidth
	}
	if h == 0 {
		h = DefaultViewportHeight
	}
	return w, h
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout time.Duration
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("campuskit: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithSnapshotter replaces the headless Chrome backend used by Export.
func WithSnapshotter(s Snapshotter) Option {
	return func(r *Renderer) {
		r.snapshotter = s
	}
}
