package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/testing-insight/internal/core/ports"
)

// FilterHandler serves the filter widgets: their reset state and the values
// each one can offer.
type FilterHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *FilterHandler {
	return &FilterHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "filter"),
	}
}

// Router sets up a new chi Router for the filter routes.
func (h *FilterHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the filter endpoints.
func (h *FilterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/defaults", h.HandleDefaults)
	r.Get("/options", h.HandleOptions)
}

// HandleDefaults returns the reset filter state of the current dataset.
func (h *FilterHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.dashboardService.Defaults(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, defaults)
}

// HandleOptions returns the option lists of the filter widgets.
func (h *FilterHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.dashboardService.Options(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, options)
}
