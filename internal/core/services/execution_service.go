package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// ExecutionService reports regression progress per platform.
type ExecutionService struct {
	datasets ports.DatasetService
	logger   *slog.Logger
}

var _ ports.ExecutionService = (*ExecutionService)(nil)

// NewExecutionService creates a new execution service
func NewExecutionService(datasets ports.DatasetService, logger *slog.Logger) ports.ExecutionService {
	return &ExecutionService{
		datasets: datasets,
		logger:   logger.With("component", "execution_service"),
	}
}

// Progress returns the platform's rows in date order together with the latest
// Execution, Passed and Failed figures and their change from the day before.
func (s *ExecutionService) Progress(ctx context.Context, platform string) (*domain.ExecutionReport, error) {
	name, ok := domain.NormalizePlatform(platform)
	if !ok {
		errs := apperrors.NewValidationErrors()
		errs.Add("platform", apperrors.ErrInvalidPlatform.Error())
		return nil, errs
	}

	rows, loadErr := s.datasets.Executions(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	selected := make([]domain.ExecutionProgress, 0, len(rows))
	for _, r := range rows {
		if r.Platform == name {
			selected = append(selected, r)
		}
	}
	slices.SortStableFunc(selected, func(a, b domain.ExecutionProgress) int {
		return a.Date.Compare(b.Date.Time)
	})

	return &domain.ExecutionReport{
		Platform: name,
		Rows:     selected,
		Cards:    executionCards(selected),
		Warnings: warningsFor(loadErr),
	}, nil
}

func executionCards(rows []domain.ExecutionProgress) []domain.ExecutionCard {
	cards := []domain.ExecutionCard{}
	if len(rows) == 0 {
		return cards
	}

	latest := rows[len(rows)-1]
	var previous *domain.ExecutionProgress
	if len(rows) > 1 {
		previous = &rows[len(rows)-2]
	}

	figures := []struct {
		label string
		value func(p domain.ExecutionProgress) float64
	}{
		{"Execution", func(p domain.ExecutionProgress) float64 { return p.Execution }},
		{"Passed", func(p domain.ExecutionProgress) float64 { return p.Passed }},
		{"Failed", func(p domain.ExecutionProgress) float64 { return p.Failed }},
	}
	for _, f := range figures {
		card := domain.ExecutionCard{Label: f.label, Value: f.value(latest)}
		if previous != nil {
			delta := f.value(latest) - f.value(*previous)
			card.Delta = &delta
		}
		cards = append(cards, card)
	}
	return cards
}
