package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/testing-insight/internal/adapters/primary/validation"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// DashboardHandler computes the dashboard for a posted filter state.
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
	}
}

// Router sets up a new chi Router for the dashboard route.
func (h *DashboardHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the dashboard endpoint.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleDashboard)
}

// decodeFilterState reads an optional FilterState body. An empty body selects
// everything.
func decodeFilterState(r *http.Request) (domain.FilterState, error) {
	state, err := validation.DecodeOptional[domain.FilterState](r)
	if err != nil {
		return domain.FilterState{}, err
	}
	if err := validation.NewValidator().FilterState("", *state).Err(); err != nil {
		return domain.FilterState{}, err
	}
	return *state, nil
}

// HandleDashboard returns summary metrics, charts and the feature board for
// the filtered tickets.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	state, err := decodeFilterState(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	view, err := h.dashboardService.Dashboard(r.Context(), state)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if len(view.Warnings) > 0 {
		h.logger.WarnContext(r.Context(), "dashboard rendered with warnings",
			"warnings", view.Warnings,
		)
	}

	WriteJSON(w, http.StatusOK, view)
}
