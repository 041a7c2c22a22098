package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/testing-insight/internal/adapters/primary/validation"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

const maxTicketIDLength = 64

// TicketHandler handles HTTP requests for the ticket list and ticket detail
type TicketHandler struct {
	ticketService ports.TicketService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket-related routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Post("/search", h.HandleSearchTickets)
	r.Get("/{ticketID}", h.HandleGetTicket)
}

// HandleSearchTickets returns one page of the filtered ticket list. The mode
// and page come from the query string, the filter state from the body.
func (h *TicketHandler) HandleSearchTickets(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	v := validation.NewValidator()
	v.OneOf("mode", mode, []string{string(domain.ListRecent), string(domain.ListHot)})
	if HandleError(w, r, v.Err(), h.errorHandler) {
		return
	}

	state, err := decodeFilterState(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	page, err := h.ticketService.List(r.Context(), ports.ListTicketsParams{
		State: state,
		Mode:  domain.ListMode(mode),
		Page:  validation.ParseIntQueryParam(r, "page", 1),
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// HandleGetTicket returns the detail view of a single ticket.
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := strings.TrimSpace(chi.URLParam(r, "ticketID"))

	v := validation.NewValidator()
	v.Required("ticketID", ticketID).MaxLength("ticketID", ticketID, maxTicketIDLength)
	if HandleError(w, r, v.Err(), h.errorHandler) {
		return
	}

	detail, err := h.ticketService.Get(r.Context(), ticketID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, detail)
}
