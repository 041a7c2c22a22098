package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorrc/testing-insight/internal/core/domain"
)

// DatasetService loads and memoizes the source files. On failure the returned
// dataset is empty, never partial, and the error says why.
type DatasetService interface {
	Tickets(ctx context.Context) (*domain.Dataset, error)
	Executions(ctx context.Context) ([]domain.ExecutionProgress, error)
	Reload(ctx context.Context) (*domain.ReloadResult, error)
}

// DashboardService computes the dashboard for a filter state.
type DashboardService interface {
	Defaults(ctx context.Context) (*domain.FilterDefaults, error)
	Options(ctx context.Context) (*domain.FilterOptions, error)
	Dashboard(ctx context.Context, state domain.FilterState) (*domain.DashboardView, error)
}

// ListTicketsParams defines the input for the paginated ticket list.
type ListTicketsParams struct {
	State domain.FilterState
	Mode  domain.ListMode
	Page  int
}

// TicketService defines the ticket list and detail operations.
type TicketService interface {
	List(ctx context.Context, params ListTicketsParams) (*domain.TicketPage, error)
	Get(ctx context.Context, ticketID string) (*domain.TicketDetail, error)
}

// ExecutionService defines the test-execution progress operation.
type ExecutionService interface {
	Progress(ctx context.Context, platform string) (*domain.ExecutionReport, error)
}

// CreateViewParams defines the input for saving a filter view.
type CreateViewParams struct {
	Name  string
	State domain.FilterState
}

// SavedViewService defines the port for saved filter views.
type SavedViewService interface {
	Create(ctx context.Context, params CreateViewParams) (*domain.SavedView, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SavedView, error)
	List(ctx context.Context, limit int) ([]*domain.SavedView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
