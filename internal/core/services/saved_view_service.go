package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

const (
	defaultViewLimit = 50
	maxViewLimit     = 200
)

// SavedViewService stores named filter states.
type SavedViewService struct {
	repo ports.SavedViewRepository
}

var _ ports.SavedViewService = (*SavedViewService)(nil)

// NewSavedViewService creates a new saved view service
func NewSavedViewService(repo ports.SavedViewRepository) ports.SavedViewService {
	return &SavedViewService{repo: repo}
}

// Create validates and persists a view.
func (s *SavedViewService) Create(ctx context.Context, params ports.CreateViewParams) (*domain.SavedView, error) {
	view, err := domain.NewSavedView(params.Name, params.State)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, view)
}

// Get returns a view by id.
func (s *SavedViewService) Get(ctx context.Context, id uuid.UUID) (*domain.SavedView, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the newest views first.
func (s *SavedViewService) List(ctx context.Context, limit int) ([]*domain.SavedView, error) {
	if limit <= 0 {
		limit = defaultViewLimit
	}
	if limit > maxViewLimit {
		limit = maxViewLimit
	}
	return s.repo.List(ctx, limit)
}

// Delete removes a view.
func (s *SavedViewService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
