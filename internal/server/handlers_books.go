package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/auth"
	"github.com/desertthunder/shelf/internal/library"
)

// BookHandler serves a user's book list. Every route requires a session.
type BookHandler struct {
	svc    *library.Service
	logger *log.Logger
}

func NewBookHandler(svc *library.Service, logger *log.Logger) *BookHandler {
	return &BookHandler{svc: svc, logger: logger}
}

func (h *BookHandler) Routes() []string {
	return []string{
		"GET /books",
		"GET /books/{id}",
		"POST /books",
		"PUT /books",
		"DELETE /books",
	}
}

func (h *BookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := auth.RequireUser(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	switch r.Pattern {
	case "GET /books":
		books, err := h.svc.List(r.Context(), user.ID())
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"data": books})

	case "GET /books/{id}":
		book, err := h.svc.Get(r.Context(), user.ID(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"data": book})

	case "POST /books":
		var in library.AddBookInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		id, err := h.svc.Add(r.Context(), user.ID(), in)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusCreated, envelope{"bookId": id})

	case "PUT /books":
		var body struct {
			ID string `json:"id"`
			library.BookPatch
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		if err := h.svc.Update(r.Context(), user.ID(), body.ID, body.BookPatch); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)

	case "DELETE /books":
		if err := h.svc.Remove(r.Context(), user.ID(), r.URL.Query().Get("id")); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	}
}
