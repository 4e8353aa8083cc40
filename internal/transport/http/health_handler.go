package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"leanixcli/internal/services"
)

// HealthHandler serves liveness, readiness and version endpoints.
type HealthHandler struct {
	service *services.AnalysisService
	logger  *slog.Logger
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service *services.AnalysisService, logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger,
		version: version,
		started: time.Now(),
	}
}

// RegisterRoutes registers the health and version routes.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.GetHealth)
	r.Get("/health/ready", h.GetReadiness)
	r.Get("/version", h.GetVersion)
}

// GetHealth reports process liveness.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetReadiness reports whether an analysis snapshot is available to serve.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK
	if _, err := h.service.Latest(r.Context()); err != nil {
		status = "waiting_for_analysis"
		code = http.StatusServiceUnavailable
	}

	render.Status(r, code)
	render.JSON(w, r, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetVersion reports the build version.
func (h *HealthHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"version": h.version,
	})
}
