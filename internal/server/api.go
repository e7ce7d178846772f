package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/store"
)

func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListPublished(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []store.Content{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []store.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		s.writeError(w, r, store.ErrOwnerRequired)
		return
	}
	list, err := s.store.ListAssets(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Asset{}
	}
	writeJSON(w, http.StatusOK, list)
}

// previewRequest is the body of POST /api/preview.
type previewRequest struct {
	OwnerID string `json:"ownerId"`
	Title   string `json:"title"`
	Markup  string `json:"markup"`
	Styles  string `json:"styles"`
	Script  string `json:"script"`
}

// handlePreview assembles the editor buffers in preview mode. With an
// ownerId, assets/ references resolve against that owner's assets.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPreviewBytes)

	var req previewRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	var list []store.Asset
	if req.OwnerID != "" {
		var err error
		if list, err = s.store.ListAssets(r.Context(), req.OwnerID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	doc, err := campuskit.Assemble(campuskit.Input{
		Bundle: campuskit.SourceBundle{Markup: req.Markup, Styles: req.Styles, Script: req.Script},
		Assets: store.RenderAssets(list),
		Title:  req.Title,
		Mode:   campuskit.ModePreview,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.observeDocument(campuskit.ModePreview)
	s.writeDocument(w, campuskit.ModePreview, doc)
}
