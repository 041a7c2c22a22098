package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
	"github.com/lorrc/testing-insight/internal/infrastructure/metrics"
)

// DatasetFiles names the files the dashboard reads from the source folder.
type DatasetFiles struct {
	Tickets    string
	Executions string
}

// DatasetService downloads, parses and memoizes the source files. A memo entry
// lives until Reload is called.
type DatasetService struct {
	source      ports.FileSource
	tickets     ports.TicketParser
	executions  ports.ExecutionParser
	broadcaster ports.EventBroadcaster
	metrics     *metrics.Metrics
	files       DatasetFiles
	logger      *slog.Logger

	mu         sync.Mutex
	ticketMemo *domain.Dataset
	execMemo   []domain.ExecutionProgress
	execLoaded bool
}

var _ ports.DatasetService = (*DatasetService)(nil)

// NewDatasetService creates a new dataset service
func NewDatasetService(
	source ports.FileSource,
	tickets ports.TicketParser,
	executions ports.ExecutionParser,
	broadcaster ports.EventBroadcaster,
	m *metrics.Metrics,
	files DatasetFiles,
	logger *slog.Logger,
) ports.DatasetService {
	return &DatasetService{
		source:      source,
		tickets:     tickets,
		executions:  executions,
		broadcaster: broadcaster,
		metrics:     m,
		files:       files,
		logger:      logger.With("component", "dataset_service"),
	}
}

// Tickets returns the ticket export, loading it on first use. On failure the
// dataset is empty and the error explains why.
func (s *DatasetService) Tickets(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticketMemo != nil {
		return s.ticketMemo, nil
	}

	d, err := s.loadTickets(ctx)
	if err != nil {
		return domain.EmptyDataset(s.files.Tickets), err
	}
	s.ticketMemo = d
	return d, nil
}

// Executions returns the execution workbook rows, loading them on first use.
func (s *DatasetService) Executions(ctx context.Context) ([]domain.ExecutionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.execLoaded {
		return s.execMemo, nil
	}

	rows, err := s.loadExecutions(ctx)
	if err != nil {
		return []domain.ExecutionProgress{}, err
	}
	s.execMemo = rows
	s.execLoaded = true
	return rows, nil
}

// Reload drops the memo and loads the ticket export again. Viewers are told
// when the content changed.
func (s *DatasetService) Reload(ctx context.Context) (*domain.ReloadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var previous string
	if s.ticketMemo != nil {
		previous = s.ticketMemo.Version
	}
	s.ticketMemo = nil
	s.execMemo = nil
	s.execLoaded = false

	result := &domain.ReloadResult{
		Dataset:         s.files.Tickets,
		PreviousVersion: previous,
		LoadedAt:        time.Now().UTC(),
	}

	d, err := s.loadTickets(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Warnings = []string{err.Error()}
		return result, nil
	}
	s.ticketMemo = d

	result.Version = d.Version
	result.Tickets = d.Len()
	result.LoadedAt = d.LoadedAt
	result.Changed = d.Version != previous

	if result.Changed {
		event := domain.Event{
			Type:      domain.EventDatasetReloaded,
			Dataset:   d.Name,
			Version:   d.Version,
			Timestamp: time.Now().UTC(),
			Payload:   result,
		}
		if err := s.broadcaster.Broadcast(event); err != nil {
			s.logger.Warn("failed to broadcast reload", "error", err)
		}
	}

	return result, nil
}

func (s *DatasetService) loadTickets(ctx context.Context) (d *domain.Dataset, err error) {
	name := s.files.Tickets
	started := time.Now()
	defer func() { s.recordLoad(name, started, err) }()

	data, err := s.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	d, err = s.tickets.ParseTickets(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d.Name = name
	d.Version = contentVersion(data)

	s.metrics.DatasetTickets.WithLabelValues(name).Set(float64(d.Len()))
	s.logger.Info("ticket export loaded",
		"file", name,
		"version", d.Version,
		"tickets", d.Len(),
	)
	return d, nil
}

func (s *DatasetService) loadExecutions(ctx context.Context) (rows []domain.ExecutionProgress, err error) {
	name := s.files.Executions
	started := time.Now()
	defer func() { s.recordLoad(name, started, err) }()

	data, err := s.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err = s.executions.ParseExecutions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s.logger.Info("execution workbook loaded", "file", name, "rows", len(rows))
	return rows, nil
}

// fetch resolves name in the source folder and downloads it.
func (s *DatasetService) fetch(ctx context.Context, name string) ([]byte, error) {
	files, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source folder: %w", asSourceError(err))
	}

	id, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, apperrors.ErrFileNotFound)
	}

	rc, err := s.source.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", name, asSourceError(err))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, asSourceError(err))
	}
	return data, nil
}

func (s *DatasetService) recordLoad(name string, started time.Time, err error) {
	s.metrics.ObserveLoad(name, started, err)
	if err == nil {
		return
	}
	s.metrics.SourceErrors.WithLabelValues(name, errorReason(err)).Inc()
	s.logger.Warn("failed to load dataset", "file", name, "error", err)
}

func asSourceError(err error) error {
	if errors.Is(err, apperrors.ErrSourceUnavailable) || errors.Is(err, apperrors.ErrFileNotFound) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, apperrors.ErrMissingRequiredColumns):
		return "missing_columns"
	case errors.Is(err, apperrors.ErrMalformedData):
		return "malformed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "source_unavailable"
	}
}

// contentVersion fingerprints downloaded bytes so a re-upload of the same file
// keeps its version.
func contentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:6])
}
