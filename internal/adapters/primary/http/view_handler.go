package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/testing-insight/internal/adapters/primary/validation"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

const (
	defaultViewsLimit = 50
	maxViewsLimit     = 200
)

// ViewHandler handles HTTP requests for saved filter views
type ViewHandler struct {
	viewService  ports.SavedViewService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewViewHandler creates a new saved view handler
func NewViewHandler(
	viewService ports.SavedViewService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ViewHandler {
	return &ViewHandler{
		viewService:  viewService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "view"),
	}
}

// Router sets up a new chi Router for the saved view routes.
func (h *ViewHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the saved view endpoints.
func (h *ViewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListViews)
	r.Post("/", h.HandleCreateView)
	r.Get("/{viewID}", h.HandleGetView)
	r.Delete("/{viewID}", h.HandleDeleteView)
}

// --- Request/Response DTOs ---

// CreateViewRequest defines the expected JSON body for saving a view
type CreateViewRequest struct {
	Name  string             `json:"name"`
	State domain.FilterState `json:"state"`
}

// Validate validates the create view request
func (r *CreateViewRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxViewNameLength)
	v.FilterState("state.", r.State)

	return v.Err()
}

// SavedViewResponse is the JSON shape of a saved view
type SavedViewResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	State     domain.FilterState `json:"state"`
	CreatedAt string             `json:"createdAt"`
}

func toSavedViewResponse(view *domain.SavedView) SavedViewResponse {
	return SavedViewResponse{
		ID:        view.ID.String(),
		Name:      view.Name,
		State:     view.State,
		CreatedAt: view.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// --- Handlers ---

// HandleListViews returns the most recent saved views.
func (h *ViewHandler) HandleListViews(w http.ResponseWriter, r *http.Request) {
	limit := validation.ParseLimit(r, defaultViewsLimit, maxViewsLimit)

	views, err := h.viewService.List(r.Context(), limit)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := make([]SavedViewResponse, 0, len(views))
	for _, view := range views {
		response = append(response, toSavedViewResponse(view))
	}
	WriteList(w, response)
}

// HandleCreateView saves a named filter state.
func (h *ViewHandler) HandleCreateView(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateViewRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if HandleError(w, r, req.Validate(), h.errorHandler) {
		return
	}

	view, err := h.viewService.Create(r.Context(), ports.CreateViewParams{
		Name:  req.Name,
		State: req.State,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "saved view created", "view_id", view.ID)
	WriteCreated(w, toSavedViewResponse(view))
}

// HandleGetView returns one saved view.
func (h *ViewHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseUUID("viewID", chi.URLParam(r, "viewID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	view, err := h.viewService.Get(r.Context(), id)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toSavedViewResponse(view))
}

// HandleDeleteView removes a saved view.
func (h *ViewHandler) HandleDeleteView(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseUUID("viewID", chi.URLParam(r, "viewID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if HandleError(w, r, h.viewService.Delete(r.Context(), id), h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "saved view deleted", "view_id", id)
	WriteNoContent(w)
}
