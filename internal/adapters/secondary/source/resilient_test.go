package source_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/testing-insight/internal/adapters/secondary/source"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/mocks"
	"github.com/lorrc/testing-insight/internal/infrastructure/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(attempts uint, threshold uint32) source.ResilienceConfig {
	return source.ResilienceConfig{
		Name:             "drive",
		Attempts:         attempts,
		RetryDelay:       time.Millisecond,
		AttemptTimeout:   time.Second,
		FailureThreshold: threshold,
		OpenTimeout:      time.Minute,
	}
}

func TestResilientSource_List(t *testing.T) {
	ctx := context.Background()

	t.Run("retries transient failures", func(t *testing.T) {
		next := mocks.NewMockFileSource()
		next.On("List", mock.Anything).Return(nil, errors.New("503 backend error")).Twice()
		next.On("List", mock.Anything).Return(map[string]string{"a.csv": "id-a"}, nil).Once()
		src := source.NewResilientSource(next, testConfig(3, 5), nil, discardLogger())

		files, err := src.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, "id-a", files["a.csv"])
		next.AssertNumberOfCalls(t, "List", 3)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		next := mocks.NewMockFileSource()
		next.On("List", mock.Anything).Return(nil, errors.New("timeout"))
		src := source.NewResilientSource(next, testConfig(2, 5), nil, discardLogger())

		_, err := src.List(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
		next.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("opens the breaker after repeated failures", func(t *testing.T) {
		m := metrics.NewMetrics(nil)
		next := mocks.NewMockFileSource()
		next.On("List", mock.Anything).Return(nil, errors.New("connection refused"))
		src := source.NewResilientSource(next, testConfig(1, 2), m, discardLogger())

		_, err := src.List(ctx)
		require.Error(t, err)
		_, err = src.List(ctx)
		require.Error(t, err)

		_, err = src.List(ctx)

		assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
		next.AssertNumberOfCalls(t, "List", 2)
		assert.InDelta(t, 2, testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("drive")), 0)
	})
}

func TestResilientSource_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("buffers the download", func(t *testing.T) {
		next := mocks.NewMockFileSource()
		next.On("Open", mock.Anything, "id-a").Return(io.NopCloser(strings.NewReader("payload")), nil)
		src := source.NewResilientSource(next, testConfig(3, 5), nil, discardLogger())

		rc, err := src.Open(ctx, "id-a")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)

		assert.Equal(t, "payload", string(data))
	})

	t.Run("not found is not retried and does not trip", func(t *testing.T) {
		next := mocks.NewMockFileSource()
		next.On("Open", mock.Anything, "gone").Return(nil, apperrors.ErrFileNotFound)
		src := source.NewResilientSource(next, testConfig(3, 1), nil, discardLogger())

		_, err := src.Open(ctx, "gone")
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
		_, err = src.Open(ctx, "gone")
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

		next.AssertNumberOfCalls(t, "Open", 2)
	})
}
