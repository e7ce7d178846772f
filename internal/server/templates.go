package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/assets"
	"github.com/campuskit/campuskit/internal/store"
)

// pages maps a page template name to the layout parsed together with it.
type pages map[string]*template.Template

func parsePages(loader assets.AssetLoader) (pages, error) {
	layout, err := loader.LoadTemplate(assets.LayoutTemplate)
	if err != nil {
		return nil, err
	}
	base, err := template.New(assets.LayoutTemplate).Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", assets.LayoutTemplate, err)
	}

	out := make(pages, len(assets.PageTemplates))
	for _, name := range assets.PageTemplates {
		src, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, err
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(src); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// pageData is what the layout and every page template receive.
type pageData struct {
	Title         string
	SiteName      string
	Categories    []store.Category
	ActiveSubject string

	Cards     []cardView
	Content   *contentView
	Source    *sourceView
	GuideCSS  template.CSS
	GuideHTML template.HTML
}

type cardView struct {
	URL     string
	CardURL string
	Sandbox string
	Title   string
	Type    campuskit.ContentType
	Subject string
	Views   int64
	Excerpt string
	IsCode  bool
}

type contentView struct {
	URL           string
	Title         string
	Subject       string
	SubjectSlug   string
	Views         int64
	IsCode        bool
	IsImage       bool
	ExportEnabled bool
	FileURL       string
	// Srcdoc is a plain string so html/template escapes it as an attribute
	// value; the browser unescapes it back into the document.
	Srcdoc  string
	Sandbox string
}

type sourceView struct {
	URL    string
	Title  string
	CSS    template.CSS
	Markup template.HTML
	Styles template.HTML
	Script template.HTML
}

// newPage fills the layout fields. A failing category query only costs the
// navigation, so it is logged and the page still renders.
func (s *Server) newPage(ctx context.Context, title string) *pageData {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Warn("listing categories", zap.Error(err))
	}
	return &pageData{
		Title:      title,
		SiteName:   s.cfg.Site.Name,
		Categories: cats,
	}
}

// renderPage executes a page into a buffer first so template errors become a
// clean 500 instead of a truncated page.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	t, ok := s.pages[name]
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", assets.ErrTemplateNotFound, name))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, assets.LayoutTemplate, data); err != nil {
		s.writeError(w, r, fmt.Errorf("executing %s template: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
