package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// SavedViewRepository stores saved filter views in the saved_views table.
type SavedViewRepository struct {
	pool *pgxpool.Pool
}

// Ensure implementation matches the interface.
var _ ports.SavedViewRepository = (*SavedViewRepository)(nil)

// NewSavedViewRepository creates a new saved view repository.
func NewSavedViewRepository(pool *pgxpool.Pool) ports.SavedViewRepository {
	return &SavedViewRepository{pool: pool}
}

// Create persists a new view. The filter state is stored as jsonb.
func (r *SavedViewRepository) Create(ctx context.Context, view *domain.SavedView) (*domain.SavedView, error) {
	const query = `
INSERT INTO saved_views (id, name, state, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, name, state, created_at
`

	state, err := json.Marshal(view.State)
	if err != nil {
		return nil, fmt.Errorf("encode view state: %w", err)
	}

	row := r.pool.QueryRow(ctx, query,
		pgtype.UUID{Bytes: view.ID, Valid: true},
		view.Name,
		state,
		pgtype.Timestamptz{Time: view.CreatedAt, Valid: true},
	)
	return scanSavedView(row)
}

// GetByID returns the view or ErrSavedViewNotFound.
func (r *SavedViewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedView, error) {
	const query = `
SELECT id, name, state, created_at
FROM saved_views
WHERE id = $1
`

	view, err := scanSavedView(r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrSavedViewNotFound
	}
	return view, err
}

// List returns up to limit views, newest first.
func (r *SavedViewRepository) List(ctx context.Context, limit int) ([]*domain.SavedView, error) {
	const query = `
SELECT id, name, state, created_at
FROM saved_views
ORDER BY created_at DESC, name
LIMIT $1
`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]*domain.SavedView, 0)
	for rows.Next() {
		view, err := scanSavedView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// Delete removes a view. Deleting an unknown id reports ErrSavedViewNotFound.
func (r *SavedViewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_views WHERE id = $1`, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSavedViewNotFound
	}
	return nil
}

func scanSavedView(row pgx.Row) (*domain.SavedView, error) {
	var (
		id        pgtype.UUID
		name      string
		state     []byte
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &state, &createdAt); err != nil {
		return nil, err
	}

	view := &domain.SavedView{
		ID:        id.Bytes,
		Name:      name,
		CreatedAt: createdAt.Time.UTC(),
	}
	if err := json.Unmarshal(state, &view.State); err != nil {
		return nil, fmt.Errorf("decode view state: %w", err)
	}
	return view, nil
}
