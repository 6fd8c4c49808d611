package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/auth"
	"github.com/desertthunder/shelf/internal/library"
)

// ActivityHandler serves the activity feed. Anonymous callers read an empty feed
// and may append entries without an owner.
type ActivityHandler struct {
	svc    *library.Service
	logger *log.Logger
}

func NewActivityHandler(svc *library.Service, logger *log.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, logger: logger}
}

func (h *ActivityHandler) Routes() []string {
	return []string{
		"GET /activity",
		"POST /activity",
		"POST /activity/clear",
	}
}

func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	switch r.Pattern {
	case "GET /activity":
		entries, err := h.svc.Recent(r.Context(), userID)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"data": entries})

	case "POST /activity":
		var body struct {
			Message string `json:"message"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		if err := h.svc.Record(r.Context(), userID, body.Message); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusCreated, nil)

	case "POST /activity/clear":
		if err := h.svc.Clear(r.Context(), userID); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	}
}
