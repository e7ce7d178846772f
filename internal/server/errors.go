package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/store"
)

// Sentinel errors for request handling.
var (
	ErrExportDisabled = errors.New("export is disabled")
	ErrBadRequest     = errors.New("bad request")
	ErrNotDocument    = errors.New("content has no document")
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ErrNotDocument):
		return http.StatusNotFound
	case store.IsValidation(err),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, campuskit.ErrInvalidMode),
		errors.Is(err, campuskit.ErrInvalidViewport),
		errors.Is(err, campuskit.ErrInvalidExportFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrExportDisabled),
		errors.Is(err, campuskit.ErrPoolClosed),
		errors.Is(err, campuskit.ErrBrowserConnect):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes err as JSON. Internal errors are logged and reported
// without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
