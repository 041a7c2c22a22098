package http

import (
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mw "github.com/lorrc/testing-insight/internal/adapters/primary/http/middleware"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/mocks"
)

func TestDatasetHandler_Reload(t *testing.T) {
	svc := mocks.NewMockDatasetService()
	svc.On("Reload", mock.Anything).Return(&domain.ReloadResult{
		Dataset:         "jira_tiket.csv",
		PreviousVersion: "aaaaaaaaaaaa",
		Version:         "bbbbbbbbbbbb",
		Changed:         true,
		Tickets:         42,
		LoadedAt:        time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}, nil)
	router := NewDatasetHandler(svc, nil, newTestErrorHandler(), discardLogger()).Router()

	rec := serve(router, stdhttp.MethodPost, "/reload", "")

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	result := decodeBody[domain.ReloadResult](t, rec)
	assert.True(t, result.Changed)
	assert.Equal(t, 42, result.Tickets)
}

func TestDatasetHandler_ReloadIsRateLimited(t *testing.T) {
	svc := mocks.NewMockDatasetService()
	svc.On("Reload", mock.Anything).Return(&domain.ReloadResult{Dataset: "jira_tiket.csv"}, nil)
	limiter := mw.NewRateLimiter(mw.RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	defer limiter.Stop()
	router := NewDatasetHandler(svc, limiter.Middleware, newTestErrorHandler(), discardLogger()).Router()

	first := serve(router, stdhttp.MethodPost, "/reload", "")
	second := serve(router, stdhttp.MethodPost, "/reload", "")

	assert.Equal(t, stdhttp.StatusOK, first.Code)
	assert.Equal(t, stdhttp.StatusTooManyRequests, second.Code)
	svc.AssertNumberOfCalls(t, "Reload", 1)
}
