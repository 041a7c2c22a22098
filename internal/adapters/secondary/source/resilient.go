package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"

	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
	"github.com/lorrc/testing-insight/internal/infrastructure/metrics"
)

// ResilienceConfig tunes retries and the circuit breaker around a source.
type ResilienceConfig struct {
	Name             string
	Attempts         uint
	RetryDelay       time.Duration
	AttemptTimeout   time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultResilienceConfig returns the settings used for the remote folder.
func DefaultResilienceConfig(name string) ResilienceConfig {
	return ResilienceConfig{
		Name:             name,
		Attempts:         3,
		RetryDelay:       200 * time.Millisecond,
		AttemptTimeout:   30 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// ResilientSource retries transient failures of the wrapped source and stops
// calling it for a while once it keeps failing.
type ResilientSource struct {
	next   ports.FileSource
	cb     *gobreaker.CircuitBreaker
	cfg    ResilienceConfig
	logger *slog.Logger
}

var _ ports.FileSource = (*ResilientSource)(nil)

// NewResilientSource wraps next. m may be nil.
func NewResilientSource(next ports.FileSource, cfg ResilienceConfig, m *metrics.Metrics, logger *slog.Logger) ports.FileSource {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	logger = logger.With("component", "resilient_source", "source", cfg.Name)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrFileNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
			if m != nil {
				m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})
	if m != nil {
		m.CircuitBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	}

	return &ResilientSource{next: next, cb: cb, cfg: cfg, logger: logger}
}

// List lists the wrapped folder.
func (s *ResilientSource) List(ctx context.Context) (map[string]string, error) {
	var files map[string]string
	err := s.call(ctx, "list", func(ctx context.Context) error {
		var err error
		files, err = s.next.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Open downloads the whole file inside one attempt so a slow transfer is
// retried like any other failure.
func (s *ResilientSource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	var data []byte
	err := s.call(ctx, "open", func(ctx context.Context) error {
		rc, err := s.next.Open(ctx, id)
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *ResilientSource) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(s.cfg.Attempts),
			retry.Delay(s.cfg.RetryDelay),
			retry.RetryIf(func(err error) bool {
				return !errors.Is(err, apperrors.ErrFileNotFound)
			}),
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				return retry.BackOffDelay(n, err, config)
			}),
			retry.LastErrorOnly(true),
		)

		return nil, r.Do(func() error {
			attemptCtx := ctx
			if s.cfg.AttemptTimeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, s.cfg.AttemptTimeout)
				defer cancel()
			}
			return fn(attemptCtx)
		})
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		s.logger.Warn("source call rejected by circuit breaker", "op", op)
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrSourceUnavailable, s.cfg.Name, op, err)
	}
	return err
}
