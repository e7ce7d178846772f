package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/assets"
	"github.com/campuskit/campuskit/internal/pipeline"
	"github.com/campuskit/campuskit/internal/store"
)

// assemble builds the document of a code item in mode, resolving references
// against the owner's assets as they are right now.
func (s *Server) assemble(ctx context.Context, c *store.Content, mode campuskit.Mode) (string, error) {
	list, err := s.store.ListAssets(ctx, c.OwnerID)
	if err != nil {
		return "", err
	}
	doc, err := campuskit.Assemble(campuskit.Input{
		Bundle: c.Bundle(),
		Assets: store.RenderAssets(list),
		Title:  c.Title,
		Mode:   mode,
	})
	if err != nil {
		return "", err
	}
	s.metrics.observeDocument(mode)
	return doc, nil
}

// publishedCode loads the published code item addressed by the route.
// File items have no assembled document.
func (s *Server) publishedCode(r *http.Request) (*store.Content, error) {
	c, err := s.store.GetPublished(r.Context(), chi.URLParam(r, "subject"), chi.URLParam(r, "slug"))
	if err != nil {
		return nil, err
	}
	if c.Type != campuskit.ContentCode {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotDocument, c.Path(), c.Type)
	}
	return c, nil
}

// writeDocument serves an assembled document. The CSP sandbox directive
// applies the iframe policy even when the URL is opened directly.
func (s *Server) writeDocument(w http.ResponseWriter, mode campuskit.Mode, doc string) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", "sandbox "+s.policy.For(mode))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(doc))
}

func (s *Server) handleDocument(mode campuskit.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.publishedCode(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		doc, err := s.assemble(r.Context(), c, mode)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeDocument(w, mode, doc)
	}
}

// handleSource shows the three stored buffers, highlighted. References are
// shown as written, not resolved.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	c, err := s.publishedCode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := &sourceView{URL: c.Path(), Title: c.Title, CSS: s.guideCSS}
	for _, part := range []struct {
		lang string
		src  string
		dst  *template.HTML
	}{
		{"html", c.Markup, &view.Markup},
		{"css", c.Styles, &view.Styles},
		{"javascript", c.Script, &view.Script},
	} {
		out, err := pipeline.HighlightSource(part.lang, part.src)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		// chroma escapes every token it emits.
		*part.dst = template.HTML(out)
	}

	data := s.newPage(r.Context(), c.Title+" source")
	data.ActiveSubject = c.SubjectSlug
	data.Source = view
	s.renderPage(w, r, http.StatusOK, assets.SourceTemplate, data)
}

func (s *Server) exportEnabled() bool {
	return s.cfg.Render.ExportEnabled && s.renderers != nil
}

func (s *Server) handleExport(format campuskit.ExportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.exportEnabled() {
			s.writeError(w, r, ErrExportDisabled)
			return
		}
		opts, err := exportOptions(r, format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		c, err := s.publishedCode(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := r.Context()
		if s.cfg.Render.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.Render.Timeout)
			defer cancel()
		}

		doc, err := s.assemble(ctx, c, campuskit.ModePublished)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		data, err := s.export(ctx, []byte(doc), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ext, mime := "pdf", "application/pdf"
		if format == campuskit.FormatPNG {
			ext, mime = "png", "image/png"
		}
		w.Header().Set("Content-Type", mime)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", c.Slug+"."+ext))
		_, _ = w.Write(data)
	}
}

func (s *Server) export(ctx context.Context, doc []byte, opts campuskit.ExportOptions) ([]byte, error) {
	rd, err := s.renderers.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.renderers.Release(rd)

	start := time.Now()
	data, err := rd.Export(ctx, doc, opts)
	s.metrics.observeExport(opts.Format, err, time.Since(start))
	return data, err
}

// exportOptions reads ?width=, ?height= and ?full= for PNG thumbnails.
func exportOptions(r *http.Request, format campuskit.ExportFormat) (campuskit.ExportOptions, error) {
	opts := campuskit.ExportOptions{Format: format}
	if format != campuskit.FormatPNG {
		return opts, nil
	}

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, p.name)
		}
		*p.dst = n
	}
	if v := q.Get("full"); v != "" {
		full, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: full must be a boolean", ErrBadRequest)
		}
		opts.Full = full
	}
	return opts, opts.Validate()
}
