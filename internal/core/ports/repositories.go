package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/testing-insight/internal/core/domain"
)

// FileSource is a folder of data files, such as a shared Drive folder.
type FileSource interface {
	// List returns the files in the folder, keyed by file name.
	List(ctx context.Context) (map[string]string, error)
	// Open downloads the file with the given id.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// TicketParser turns a ticket export into a dataset.
type TicketParser interface {
	ParseTickets(r io.Reader) (*domain.Dataset, error)
}

// ExecutionParser turns a test-execution workbook into progress rows.
type ExecutionParser interface {
	ParseExecutions(r io.Reader) ([]domain.ExecutionProgress, error)
}

// ResultCache memoizes computed results by key. A miss reports false with a
// nil error.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SavedViewRepository persists saved filter views.
type SavedViewRepository interface {
	Create(ctx context.Context, view *domain.SavedView) (*domain.SavedView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedView, error)
	List(ctx context.Context, limit int) ([]*domain.SavedView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventBroadcaster defines the port for sending real-time events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
