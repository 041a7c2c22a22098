package http

import (
	stdhttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/mocks"
)

func newDashboardRouter() (stdhttp.Handler, *mocks.MockDashboardService) {
	svc := mocks.NewMockDashboardService()
	return NewDashboardHandler(svc, newTestErrorHandler(), discardLogger()).Router(), svc
}

func TestDashboardHandler(t *testing.T) {
	t.Run("posted state is passed through", func(t *testing.T) {
		router, svc := newDashboardRouter()
		state := domain.FilterState{Squad: []string{"Payments"}, Solved: domain.SolvedNotYet}
		svc.On("Dashboard", mock.Anything, state).Return(&domain.DashboardView{
			DataVersion: "a1b2c3d4e5f6",
			Summary:     domain.SummaryMetrics{Total: 4},
		}, nil)

		rec := serve(router, stdhttp.MethodPost, "/", `{"squad":["Payments"],"solved":"not_yet"}`)

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		view := decodeBody[domain.DashboardView](t, rec)
		assert.Equal(t, "a1b2c3d4e5f6", view.DataVersion)
		assert.Equal(t, 4, view.Summary.Total)
		svc.AssertExpectations(t)
	})

	t.Run("empty body selects everything", func(t *testing.T) {
		router, svc := newDashboardRouter()
		svc.On("Dashboard", mock.Anything, domain.FilterState{}).Return(&domain.DashboardView{
			Warnings: []string{"ticket export: data source unavailable"},
		}, nil)

		rec := serve(router, stdhttp.MethodPost, "/", "")

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.Len(t, decodeBody[domain.DashboardView](t, rec).Warnings, 1)
	})

	t.Run("unknown solved value", func(t *testing.T) {
		router, svc := newDashboardRouter()

		rec := serve(router, stdhttp.MethodPost, "/", `{"solved":"maybe"}`)

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Dashboard", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _ := newDashboardRouter()

		rec := serve(router, stdhttp.MethodPost, "/", `{"squad":`)

		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	})

	t.Run("reversed date range", func(t *testing.T) {
		router, svc := newDashboardRouter()
		verrs := apperrors.NewValidationErrors()
		verrs.Add("dateRange", apperrors.ErrInvalidDateRange.Error())
		svc.On("Dashboard", mock.Anything, mock.Anything).Return(nil, verrs)

		rec := serve(router, stdhttp.MethodPost, "/", `{"dateRange":{"start":"2025-02-01","end":"2025-01-01"}}`)

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody[ValidationErrorResponse](t, rec).Fields, "dateRange")
	})
}

func TestFilterHandler(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	router := NewFilterHandler(svc, newTestErrorHandler(), discardLogger()).Router()

	start := domain.NewDate(2025, 1, 2)
	end := domain.NewDate(2025, 1, 9)
	svc.On("Defaults", mock.Anything).Return(&domain.FilterDefaults{
		DataVersion: "v1",
		State:       domain.FilterState{DateRange: domain.DateRange{Start: &start, End: &end}},
	}, nil)
	svc.On("Options", mock.Anything).Return(&domain.FilterOptions{
		Squad:  []string{"Lending", "Payments"},
		Labels: []string{"MB"},
	}, nil)

	rec := serve(router, stdhttp.MethodGet, "/defaults", "")
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dataVersion":"v1","state":{"dateRange":{"start":"2025-01-02","end":"2025-01-09"}}}`, rec.Body.String())

	rec = serve(router, stdhttp.MethodGet, "/options", "")
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	options := decodeBody[domain.FilterOptions](t, rec)
	assert.Equal(t, []string{"Lending", "Payments"}, options.Squad)
}
