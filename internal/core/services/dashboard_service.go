package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
	"github.com/lorrc/testing-insight/internal/infrastructure/metrics"
)

// DashboardService computes filter defaults, filter options and the dashboard
// view. Views are memoized per data version and filter hash.
type DashboardService struct {
	datasets ports.DatasetService
	cache    ports.ResultCache
	metrics  *metrics.Metrics
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	datasets ports.DatasetService,
	cache ports.ResultCache,
	m *metrics.Metrics,
	settings Settings,
	logger *slog.Logger,
) ports.DashboardService {
	return &DashboardService{
		datasets: datasets,
		cache:    cache,
		metrics:  m,
		settings: settings,
		logger:   logger.With("component", "dashboard_service"),
		now:      time.Now,
	}
}

// Defaults returns the reset filter state of the current dataset.
func (s *DashboardService) Defaults(ctx context.Context) (*domain.FilterDefaults, error) {
	d, err := s.datasets.Tickets(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &domain.FilterDefaults{
		DataVersion: d.Version,
		State:       domain.DefaultFilterState(d, s.now().In(s.settings.Location)),
		Warnings:    warningsFor(err),
	}, nil
}

// Options returns the values each filter widget can offer.
func (s *DashboardService) Options(ctx context.Context) (*domain.FilterOptions, error) {
	d, err := s.datasets.Tickets(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	opts := BuildFilterOptions(d, s.settings.QuickFilters)
	opts.Warnings = warningsFor(err)
	return opts, nil
}

// Dashboard computes every dashboard panel for state.
func (s *DashboardService) Dashboard(ctx context.Context, state domain.FilterState) (*domain.DashboardView, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	d, loadErr := s.datasets.Tickets(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	hash := state.Hash()
	key := fmt.Sprintf(KeyDashboardFmt, d.Version, hash)
	cacheable := loadErr == nil && d.Version != ""

	if cacheable {
		if view, ok := s.lookup(ctx, key); ok {
			return view, nil
		}
	}

	view := s.compute(d, state)
	view.FilterHash = hash
	view.Warnings = warningsFor(loadErr)

	if cacheable {
		s.store(ctx, key, view)
	}
	return view, nil
}

func (s *DashboardService) compute(d *domain.Dataset, state domain.FilterState) *domain.DashboardView {
	cats := s.settings.Categories
	filtered := ApplyFilters(d, state)

	return &domain.DashboardView{
		DataVersion:     d.Version,
		Summary:         Summarize(filtered, cats, d.HasColumn(domain.ColumnDurationToResolve)),
		DailyActivity:   BuildDailyActivity(filtered, cats),
		Lifecycle:       BuildLifecycle(filtered, cats),
		SeverityFeature: SeverityByFeature(filtered),
		StatusOverview:  StatusOverview(filtered, cats),
		Distribution:    BuildDistribution(filtered),
		FeatureBoards:   BuildFeatureBoards(filtered, cats),
	}
}

func (s *DashboardService) lookup(ctx context.Context, key string) (*domain.DashboardView, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("result cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var view domain.DashboardView
	if err := json.Unmarshal(raw, &view); err != nil {
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("discarding unreadable cached view", "key", key, "error", err)
		return nil, false
	}
	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &view, true
}

func (s *DashboardService) store(ctx context.Context, key string, view *domain.DashboardView) {
	raw, err := json.Marshal(view)
	if err != nil {
		s.logger.Warn("failed to encode view for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.settings.CacheTTL); err != nil {
		s.logger.Warn("result cache store failed", "key", key, "error", err)
	}
}

// warningsFor turns a load failure into the warnings shown next to an empty
// result.
func warningsFor(err error) []string {
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}
