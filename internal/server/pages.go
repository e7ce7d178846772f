package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/assets"
	"github.com/campuskit/campuskit/internal/pipeline"
	"github.com/campuskit/campuskit/internal/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := r.URL.Query().Get("subject")

	items, err := s.store.ListPublished(ctx, subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := s.newPage(ctx, "")
	data.ActiveSubject = subject
	for _, c := range data.Categories {
		if c.Slug == subject {
			data.Title = c.Name
		}
	}

	data.Cards = make([]cardView, 0, len(items))
	for _, c := range items {
		card := cardView{
			URL:     c.Path(),
			Title:   c.Title,
			Type:    c.Type,
			Subject: c.Subject,
			Views:   c.Views,
			IsCode:  c.Type == campuskit.ContentCode,
		}
		if card.IsCode {
			card.CardURL = c.Path() + "/card"
			card.Sandbox = s.policy.For(campuskit.ModeCard)
			card.Excerpt = pipeline.Excerpt(c.Markup, pipeline.ExcerptLength)
		}
		data.Cards = append(data.Cards, card)
	}

	s.renderPage(w, r, http.StatusOK, assets.IndexTemplate, data)
}

// handleContentPage is the host page of one item. Each visit counts a view.
func (s *Server) handleContentPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := s.store.GetPublished(ctx, chi.URLParam(r, "subject"), chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views, err := s.store.IncrementViews(ctx, c.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := &contentView{
		URL:           c.Path(),
		Title:         c.Title,
		Subject:       c.Subject,
		SubjectSlug:   c.SubjectSlug,
		Views:         views,
		IsCode:        c.Type == campuskit.ContentCode,
		IsImage:       c.Type == campuskit.ContentImage,
		ExportEnabled: s.exportEnabled(),
		FileURL:       c.FileURL,
	}
	if view.IsCode {
		doc, err := s.assemble(ctx, c, campuskit.ModePublished)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		view.Srcdoc = doc
		view.Sandbox = s.policy.For(campuskit.ModePublished)
	}

	data := s.newPage(ctx, c.Title)
	data.ActiveSubject = c.SubjectSlug
	data.Content = view
	s.renderPage(w, r, http.StatusOK, assets.ContentTemplate, data)
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	data := s.newPage(r.Context(), "Guide")
	data.GuideCSS = s.guideCSS
	data.GuideHTML = s.guideHTML
	s.renderPage(w, r, http.StatusOK, assets.GuideTemplate, data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, assets.NotFoundTemplate, s.newPage(r.Context(), "Not found"))
}
