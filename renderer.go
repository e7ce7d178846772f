package campuskit

import (
	"context"
	"fmt"
	"sync"

	"github.com/campuskit/campuskit/internal/fileutil"
	"github.com/campuskit/campuskit/internal/pipeline"
)

// Renderer turns source bundles into documents and documents into snapshots.
// Create with NewRenderer, and Close when done to release the browser.
//
// Render is safe for concurrent use. Export serializes calls on one Renderer;
// use RendererPool for parallel exports.
type Renderer struct {
	cfg         rendererConfig
	snapshotter Snapshotter
	mu          sync.Mutex // guards Export
}

// NewRenderer creates a Renderer. The browser is not started until the first
// Export.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.snapshotter == nil {
		r.snapshotter = newRodSnapshotter(r.cfg.timeout)
	}

	return r, nil
}

// Render assembles input into a standalone HTML document.
// It fails only for an invalid mode or a done context.
func (r *Renderer) Render(ctx context.Context, input Input) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := Assemble(input)
	if err != nil {
		return nil, err
	}
	return &RenderResult{HTML: []byte(doc)}, nil
}

// Assemble is the pure core of Render.
func Assemble(input Input) (string, error) {
	if !input.Mode.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidMode, int(input.Mode))
	}

	bundle := input.Bundle
	bundle.Markup = pipeline.StripDocumentWrapper(bundle.Markup)
	bundle = ResolveBundle(bundle, input.Assets)

	parts := pipeline.DocumentParts{
		Title:  input.Title,
		Markup: bundle.Markup,
		Styles: bundle.Styles,
		Script: bundle.Script,
	}

	switch input.Mode {
	case ModeCard:
		parts = pipeline.CardParts(parts)
	case ModePreview, ModePublished:
	}

	return pipeline.AssembleDocument(parts), nil
}

// Export renders an assembled document to PDF or PNG in headless Chrome.
func (r *Renderer) Export(ctx context.Context, html []byte, opts ExportOptions) ([]byte, error) {
	if len(html) == 0 {
		return nil, ErrEmptyDocument
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.timeout)
		defer cancel()
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(string(html), "html")
	if err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}
	defer cleanup()

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotter.Snapshot(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshotter != nil {
		return r.snapshotter.Close()
	}
	return nil
}
