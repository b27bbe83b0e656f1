package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/repository/memory"
	"github.com/ev-station-service/internal/usecase"
)

func TestStatsUseCase_CacheHit(t *testing.T) {
	cacheRepo := new(MockCacheRepository)
	statsRepo := new(MockStatsRepository)

	cached := &domain.Statistics{Overview: domain.StationOverview{TotalStations: 7}}
	cacheRepo.On("GetStats", mock.Anything).Return(cached, nil)

	uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, time.Minute, zap.NewNop())
	stats, err := uc.GetStatistics(context.Background())

	require.NoError(t, err)
	assert.Same(t, cached, stats)
	statsRepo.AssertNotCalled(t, "GetStatistics", mock.Anything)
	cacheRepo.AssertNotCalled(t, "SetStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsUseCase_CacheMiss(t *testing.T) {
	cacheRepo := new(MockCacheRepository)
	statsRepo := new(MockStatsRepository)

	fresh := &domain.Statistics{Overview: domain.StationOverview{TotalStations: 3}}
	cacheRepo.On("GetStats", mock.Anything).Return(nil, nil)
	statsRepo.On("GetStatistics", mock.Anything).Return(fresh, nil)
	cacheRepo.On("SetStats", mock.Anything, fresh, time.Minute).Return(nil)

	uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, time.Minute, zap.NewNop())
	stats, err := uc.GetStatistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Overview.TotalStations)
	cacheRepo.AssertExpectations(t)
	statsRepo.AssertExpectations(t)
}

func TestStatsUseCase_CacheFailureFallsBackToStore(t *testing.T) {
	cacheRepo := new(MockCacheRepository)
	statsRepo := new(MockStatsRepository)

	fresh := &domain.Statistics{}
	cacheRepo.On("GetStats", mock.Anything).Return(nil, errors.New("redis down"))
	statsRepo.On("GetStatistics", mock.Anything).Return(fresh, nil)
	cacheRepo.On("SetStats", mock.Anything, fresh, mock.Anything).Return(errors.New("redis down"))

	uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, 0, zap.NewNop())
	stats, err := uc.GetStatistics(context.Background())

	require.NoError(t, err)
	assert.Same(t, fresh, stats)
}

func TestStatsUseCase_StoreError(t *testing.T) {
	cacheRepo := new(MockCacheRepository)
	statsRepo := new(MockStatsRepository)

	cacheRepo.On("GetStats", mock.Anything).Return(nil, nil)
	statsRepo.On("GetStatistics", mock.Anything).Return(nil, errors.New("boom"))

	uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, time.Minute, zap.NewNop())
	_, err := uc.GetStatistics(context.Background())

	assert.Error(t, err)
	cacheRepo.AssertNotCalled(t, "SetStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsUseCase_RefreshBypassesCacheRead(t *testing.T) {
	cacheRepo := new(MockCacheRepository)
	statsRepo := new(MockStatsRepository)

	fresh := &domain.Statistics{}
	statsRepo.On("GetStatistics", mock.Anything).Return(fresh, nil)
	cacheRepo.On("SetStats", mock.Anything, fresh, time.Minute).Return(nil)

	uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, time.Minute, zap.NewNop())
	_, err := uc.RefreshStatistics(context.Background())

	require.NoError(t, err)
	cacheRepo.AssertNotCalled(t, "GetStats", mock.Anything)
	cacheRepo.AssertExpectations(t)
}

func TestStatsUseCase_MemoryStore(t *testing.T) {
	f := newFixture(t)
	f.addStation(t, 1, func(s *domain.Station) { s.PowerOutput = 50; s.TotalPorts = 4; s.AvailablePorts = 1 })
	f.addStation(t, 2, func(s *domain.Station) {
		s.PowerOutput = 150
		s.Status = domain.StationStatusMaintenance
		s.ConnectorType = domain.ConnectorCHAdeMO
	})
	f.addStation(t, 3, func(s *domain.Station) {
		s.PowerOutput = 250
		s.Status = domain.StationStatusOutOfOrder
		s.ConnectorType = domain.ConnectorCHAdeMO
	})
	f.addStation(t, 4, func(s *domain.Station) {
		s.PowerOutput = 350
		s.Status = domain.StationStatusInactive
		s.ConnectorType = domain.ConnectorTeslaSC
	})

	cacheRepo := new(MockCacheRepository)
	cacheRepo.On("GetStats", mock.Anything).Return(nil, nil)
	cacheRepo.On("SetStats", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewStatsUseCase(memory.NewStatsRepository(f.stations), cacheRepo, time.Minute, zap.NewNop())
	stats, err := uc.GetStatistics(context.Background())
	require.NoError(t, err)

	o := stats.Overview
	assert.Equal(t, 4, o.TotalStations)
	assert.Equal(t, 1, o.ActiveStations)
	assert.Equal(t, 1, o.InactiveStations)
	assert.Equal(t, 1, o.MaintenanceStations)
	assert.Equal(t, 1, o.OutOfOrderStations)
	assert.Equal(t, 16, o.TotalPorts)
	assert.Equal(t, 7, o.TotalAvailablePorts)
	assert.InDelta(t, 200, o.AveragePowerOutput, 0.0001)

	require.Len(t, stats.ConnectorTypes, 3)
	assert.Equal(t, domain.ConnectorCHAdeMO, stats.ConnectorTypes[0].ConnectorType)
	assert.Equal(t, 2, stats.ConnectorTypes[0].Count)
	assert.Equal(t, domain.ConnectorCCS1, stats.ConnectorTypes[1].ConnectorType)
	assert.Equal(t, domain.ConnectorTeslaSC, stats.ConnectorTypes[2].ConnectorType)
}
