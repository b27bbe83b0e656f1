package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/repository/cache"
	"github.com/ev-station-service/internal/repository/memory"
	"github.com/ev-station-service/internal/repository/redis"
	"github.com/ev-station-service/internal/usecase"
	"github.com/ev-station-service/internal/usecase/dto"
)

const (
	ownerID = "11111111-1111-4111-8111-111111111111"
	otherID = "22222222-2222-4222-8222-222222222222"
	adminID = "33333333-3333-4333-8333-333333333333"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	stations *memory.StationStore
	users    *memory.UserStore
	query    *usecase.StationQueryUseCase
	station  *usecase.StationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	f := &fixture{
		stations: memory.NewStationStore(),
		users:    memory.NewUserStore(),
	}
	f.query = usecase.NewStationQueryUseCase(f.stations, f.users, logger)
	f.station = usecase.NewStationUseCase(f.stations, f.users, cache.NewNopCacheRepository(), redis.NewNopEventPublisher(), logger)

	for _, u := range []*domain.User{
		{ID: ownerID, Name: "Owner", Email: "owner@test.com", Role: domain.RoleUser},
		{ID: otherID, Name: "Other", Email: "other@test.com", Role: domain.RoleUser},
		{ID: adminID, Name: "Admin", Email: "admin@test.com", Role: domain.RoleAdmin},
	} {
		require.NoError(t, f.users.Create(context.Background(), u))
	}
	return f
}

// addStation stores a station directly; n orders created_at.
func (f *fixture) addStation(t *testing.T, n int, mutate func(s *domain.Station)) *domain.Station {
	t.Helper()

	s := &domain.Station{
		ID:             uuidFor(n),
		Name:           "Station",
		Location:       domain.StationLocation{Latitude: 37.7749, Longitude: -122.4194, Country: domain.DefaultCountry},
		Status:         domain.StationStatusActive,
		PowerOutput:    50,
		ConnectorType:  domain.ConnectorCCS1,
		Pricing:        domain.Pricing{Currency: domain.DefaultCurrency},
		Amenities:      []domain.Amenity{},
		TotalPorts:     4,
		AvailablePorts: 2,
		CreatedBy:      ownerID,
		CreatedAt:      baseTime.Add(time.Duration(n) * time.Minute),
		UpdatedAt:      baseTime.Add(time.Duration(n) * time.Minute),
	}
	if mutate != nil {
		mutate(s)
	}
	require.NoError(t, f.stations.Create(context.Background(), s))
	return s
}

func uuidFor(n int) string {
	const hex = "0123456789abcdef"
	b := []byte("aaaaaaaa-0000-4000-8000-000000000000")
	for i, pos := 0, len(b)-1; i < 4 && n > 0; i, pos = i+1, pos-1 {
		b[pos] = hex[n%16]
		n /= 16
	}
	return string(b)
}

func validStationRequest() *dto.StationRequest {
	lat, lon := 37.7749, -122.4194
	power := 150.0
	total, available := 6, 4
	return &dto.StationRequest{
		Name: "Downtown Hub",
		Location: &dto.LocationRequest{
			Latitude:  &lat,
			Longitude: &lon,
			Address:   "1 Market St",
			City:      "San Francisco",
		},
		PowerOutput:    &power,
		ConnectorType:  string(domain.ConnectorCCS1),
		Amenities:      []string{"WiFi", "Restrooms", "WiFi"},
		TotalPorts:     &total,
		AvailablePorts: &available,
	}
}

func intPtr(v int) *int { return &v }
