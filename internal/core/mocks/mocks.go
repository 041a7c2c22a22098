package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockFileSource is a mock implementation of ports.FileSource
type MockFileSource struct {
	mock.Mock
}

var _ ports.FileSource = (*MockFileSource)(nil)

func NewMockFileSource() *MockFileSource {
	return &MockFileSource{}
}

func (m *MockFileSource) List(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockFileSource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockTicketParser is a mock implementation of ports.TicketParser
type MockTicketParser struct {
	mock.Mock
}

var _ ports.TicketParser = (*MockTicketParser)(nil)

func NewMockTicketParser() *MockTicketParser {
	return &MockTicketParser{}
}

func (m *MockTicketParser) ParseTickets(r io.Reader) (*domain.Dataset, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockExecutionParser is a mock implementation of ports.ExecutionParser
type MockExecutionParser struct {
	mock.Mock
}

var _ ports.ExecutionParser = (*MockExecutionParser)(nil)

func NewMockExecutionParser() *MockExecutionParser {
	return &MockExecutionParser{}
}

func (m *MockExecutionParser) ParseExecutions(r io.Reader) ([]domain.ExecutionProgress, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExecutionProgress), args.Error(1)
}

// MockResultCache is a mock implementation of ports.ResultCache
type MockResultCache struct {
	mock.Mock
}

var _ ports.ResultCache = (*MockResultCache)(nil)

func NewMockResultCache() *MockResultCache {
	return &MockResultCache{}
}

func (m *MockResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// MockSavedViewRepository is a mock implementation of ports.SavedViewRepository
type MockSavedViewRepository struct {
	mock.Mock
}

var _ ports.SavedViewRepository = (*MockSavedViewRepository)(nil)

func NewMockSavedViewRepository() *MockSavedViewRepository {
	return &MockSavedViewRepository{}
}

func (m *MockSavedViewRepository) Create(ctx context.Context, view *domain.SavedView) (*domain.SavedView, error) {
	args := m.Called(ctx, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedView), args.Error(1)
}

func (m *MockSavedViewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedView), args.Error(1)
}

func (m *MockSavedViewRepository) List(ctx context.Context, limit int) ([]*domain.SavedView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavedView), args.Error(1)
}

func (m *MockSavedViewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

var _ ports.EventBroadcaster = (*MockEventBroadcaster)(nil)

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockDatasetService is a mock implementation of ports.DatasetService
type MockDatasetService struct {
	mock.Mock
}

var _ ports.DatasetService = (*MockDatasetService)(nil)

func NewMockDatasetService() *MockDatasetService {
	return &MockDatasetService{}
}

func (m *MockDatasetService) Tickets(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetService) Executions(ctx context.Context) ([]domain.ExecutionProgress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExecutionProgress), args.Error(1)
}

func (m *MockDatasetService) Reload(ctx context.Context) (*domain.ReloadResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReloadResult), args.Error(1)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

var _ ports.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) Defaults(ctx context.Context) (*domain.FilterDefaults, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterDefaults), args.Error(1)
}

func (m *MockDashboardService) Options(ctx context.Context) (*domain.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterOptions), args.Error(1)
}

func (m *MockDashboardService) Dashboard(ctx context.Context, state domain.FilterState) (*domain.DashboardView, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardView), args.Error(1)
}

// MockTicketService is a mock implementation of ports.TicketService
type MockTicketService struct {
	mock.Mock
}

var _ ports.TicketService = (*MockTicketService)(nil)

func NewMockTicketService() *MockTicketService {
	return &MockTicketService{}
}

func (m *MockTicketService) List(ctx context.Context, params ports.ListTicketsParams) (*domain.TicketPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketPage), args.Error(1)
}

func (m *MockTicketService) Get(ctx context.Context, ticketID string) (*domain.TicketDetail, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketDetail), args.Error(1)
}

// MockExecutionService is a mock implementation of ports.ExecutionService
type MockExecutionService struct {
	mock.Mock
}

var _ ports.ExecutionService = (*MockExecutionService)(nil)

func NewMockExecutionService() *MockExecutionService {
	return &MockExecutionService{}
}

func (m *MockExecutionService) Progress(ctx context.Context, platform string) (*domain.ExecutionReport, error) {
	args := m.Called(ctx, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExecutionReport), args.Error(1)
}

// MockSavedViewService is a mock implementation of ports.SavedViewService
type MockSavedViewService struct {
	mock.Mock
}

var _ ports.SavedViewService = (*MockSavedViewService)(nil)

func NewMockSavedViewService() *MockSavedViewService {
	return &MockSavedViewService{}
}

func (m *MockSavedViewService) Create(ctx context.Context, params ports.CreateViewParams) (*domain.SavedView, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedView), args.Error(1)
}

func (m *MockSavedViewService) Get(ctx context.Context, id uuid.UUID) (*domain.SavedView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedView), args.Error(1)
}

func (m *MockSavedViewService) List(ctx context.Context, limit int) ([]*domain.SavedView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavedView), args.Error(1)
}

func (m *MockSavedViewService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
