package server

import (
	"database/sql"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/shared"
)

// HealthHandler reports service and database status.
type HealthHandler struct {
	db     *sql.DB
	logger *log.Logger
}

func NewHealthHandler(db *sql.DB, logger *log.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := shared.PingDatabase(r.Context(), h.db); err != nil {
		h.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			"success": false,
			"error":   "database unavailable",
			"data":    map[string]string{"status": "degraded", "database": "unreachable"},
		})
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"data": map[string]string{"status": "ok", "database": "ok"}})
}
