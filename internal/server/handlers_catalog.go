package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/shared"
)

// CatalogHandler proxies catalog searches. Results are never errors; an unavailable catalog yields an empty list.
type CatalogHandler struct {
	catalog services.Catalog
	logger  *log.Logger
}

func NewCatalogHandler(catalog services.Catalog, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) Routes() []string {
	return []string{"GET /search", "GET /trending"}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	switch r.Pattern {
	case "GET /search":
		books := h.catalog.Search(r.Context(), r.URL.Query().Get("q"), limit)
		writeSuccess(w, http.StatusOK, envelope{"data": books})
	case "GET /trending":
		books := h.catalog.Trending(r.Context(), limit)
		writeSuccess(w, http.StatusOK, envelope{"data": books})
	}
}

// parseLimit accepts an empty value (0, the catalog default) or a positive integer.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", shared.ErrInvalidArgument)
	}
	return n, nil
}
