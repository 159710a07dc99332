package handler

import (
	"net/http"

	"github.com/mcpgate/mcpgate/internal/models"
)

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

// Ping handles GET /ping on the bridge.
func Ping(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.PingResponse{Status: "alive"})
}

// HealthHandler reports the gateway and worker state without starting the
// worker.
type HealthHandler struct {
	sup Supervisor
}

func NewHealthHandler(sup Supervisor) *HealthHandler {
	return &HealthHandler{sup: sup}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Version:  Version,
		Worker:   h.sup.Status(),
		Launches: h.sup.Launches(),
	})
}
