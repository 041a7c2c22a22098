package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/testing-insight/internal/core/ports"
)

// ExecutionHandler serves regression execution progress per platform.
type ExecutionHandler struct {
	executionService ports.ExecutionService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewExecutionHandler creates a new execution handler
func NewExecutionHandler(
	executionService ports.ExecutionService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ExecutionHandler {
	return &ExecutionHandler{
		executionService: executionService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "execution"),
	}
}

// Router sets up a new chi Router for the execution route.
func (h *ExecutionHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the execution endpoint.
func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleProgress)
}

// HandleProgress returns the progress rows and headline cards of a platform.
// The platform defaults to Android.
func (h *ExecutionHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	report, err := h.executionService.Progress(r.Context(), r.URL.Query().Get("platform"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, report)
}
