package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/testing-insight/internal/core/ports"
)

// DatasetHandler exposes the forced reload of the source files.
type DatasetHandler struct {
	datasetService ports.DatasetService
	reloadLimit    func(http.Handler) http.Handler
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewDatasetHandler creates a new dataset handler. reloadLimit, when not nil,
// wraps the reload route.
func NewDatasetHandler(
	datasetService ports.DatasetService,
	reloadLimit func(http.Handler) http.Handler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		reloadLimit:    reloadLimit,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "dataset"),
	}
}

// Router sets up a new chi Router for the dataset routes.
func (h *DatasetHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the dataset endpoints.
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	if h.reloadLimit != nil {
		r = r.With(h.reloadLimit)
	}
	r.Post("/reload", h.HandleReload)
}

// HandleReload drops the memoized files and loads them again.
func (h *DatasetHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	result, err := h.datasetService.Reload(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "dataset reloaded",
		"dataset", result.Dataset,
		"version", result.Version,
		"changed", result.Changed,
		"tickets", result.Tickets,
	)

	WriteJSON(w, http.StatusOK, result)
}
