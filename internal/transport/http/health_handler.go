package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"namescan/pkg/contracts"
)

// HealthHandler reports liveness and build information.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": contracts.GetVersionInfo(),
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
