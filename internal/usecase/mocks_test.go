package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ev-station-service/internal/domain"
)

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishStationChanged(ctx context.Context, event domain.StationChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
