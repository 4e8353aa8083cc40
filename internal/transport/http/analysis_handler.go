// Package http contains the chi HTTP handlers for the dashboard API.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"leanixcli/internal/analytics"
	apierrors "leanixcli/internal/errors"
	"leanixcli/internal/services"
)

// AnalysisHandler serves portfolio and analytics endpoints from the
// latest analysis snapshot.
type AnalysisHandler struct {
	service *services.AnalysisService
	logger  *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the portfolio and analytics routes.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/overview", h.GetOverview)
		r.Get("/quality", h.GetQuality)
	})
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/business", h.GetBusiness)
		r.Get("/security", h.GetSecurity)
		r.Get("/performance", h.GetPerformance)
		r.Get("/correlation", h.GetCorrelation)
	})
	r.Post("/analyze", h.Analyze)
}

// GetOverview returns the basic table statistics.
func (h *AnalysisHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, snapshot.Overview)
}

// GetQuality returns the data quality score.
func (h *AnalysisHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, snapshot.Quality)
}

// GetBusiness returns criticality, cost and risk aggregates.
func (h *AnalysisHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, snapshot.Business)
}

// GetSecurity returns security and compliance aggregates.
func (h *AnalysisHandler) GetSecurity(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, snapshot.Security)
}

// GetPerformance returns performance and availability aggregates.
func (h *AnalysisHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, snapshot.Performance)
}

// GetCorrelation returns the numeric column correlation matrix.
func (h *AnalysisHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, snapshot.Correlation)
}

// analyzeRequest is the body of POST /api/analyze. The path is optional
// and defaults to the configured input file.
type analyzeRequest struct {
	Path string `json:"path"`
}

// Analyze re-runs the full analysis pipeline and returns the new snapshot.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req analyzeRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.logger.WarnContext(ctx, "invalid analyze request body",
				slog.String("error", err.Error()))
			render.Render(w, r, apierrors.ErrInvalidRequest)
			return
		}
	}

	snapshot, err := h.service.Analyze(ctx, req.Path)
	if err != nil {
		h.logger.ErrorContext(ctx, "analysis failed",
			slog.String("path", req.Path),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.AnalysisError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, snapshot)
}

// latest fetches the cached snapshot, rendering an error response when
// no analysis has run yet.
func (h *AnalysisHandler) latest(w http.ResponseWriter, r *http.Request) (*analytics.Snapshot, bool) {
	ctx := r.Context()

	snapshot, err := h.service.Latest(ctx)
	if err != nil {
		var appErr *apierrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeNotFound {
			render.Render(w, r, apierrors.ErrNoData)
			return nil, false
		}

		h.logger.ErrorContext(ctx, "failed to load snapshot",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return nil, false
	}
	return snapshot, true
}
