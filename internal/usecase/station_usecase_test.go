package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/usecase"
	"github.com/ev-station-service/internal/usecase/dto"
)

var (
	owner = domain.Actor{UserID: ownerID, Role: domain.RoleUser}
	other = domain.Actor{UserID: otherID, Role: domain.RoleUser}
	admin = domain.Actor{UserID: adminID, Role: domain.RoleAdmin}
)

func TestCreateStation_AppliesDefaults(t *testing.T) {
	f := newFixture(t)

	resp, err := f.station.CreateStation(context.Background(), owner, validStationRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, domain.StationStatusActive, resp.Status)
	assert.Equal(t, domain.DefaultCountry, resp.Location.Country)
	assert.Equal(t, domain.DefaultCurrency, resp.Pricing.Currency)
	assert.Equal(t, []domain.Amenity{domain.AmenityWiFi, domain.AmenityRestrooms}, resp.Amenities)
	assert.True(t, resp.IsOperational)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "owner@test.com", resp.CreatedBy.Email)
	assert.Nil(t, resp.UpdatedBy)

	stored, err := f.stations.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, stored.CreatedBy)
}

func TestCreateStation_Validation(t *testing.T) {
	f := newFixture(t)

	req := validStationRequest()
	req.Name = "A"
	req.ConnectorType = "USB"
	req.AvailablePorts = intPtr(9)

	_, err := f.station.CreateStation(context.Background(), owner, req)
	require.Error(t, err)
	assert.Equal(t, []string{"name", "connectorType", "availablePorts"}, fieldNames(t, err))

	count, err := f.stations.Count(context.Background(), domain.StationFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateStation_PublishesAndInvalidates(t *testing.T) {
	f := newFixture(t)
	cacheRepo := new(MockCacheRepository)
	publisher := new(MockEventPublisher)

	cacheRepo.On("InvalidateStats", mock.Anything).Return(nil)
	publisher.On("PublishStationChanged", mock.Anything, mock.MatchedBy(func(e domain.StationChangedEvent) bool {
		return e.Action == domain.StationCreated && e.ActorID == ownerID && e.StationID != ""
	})).Return(nil)

	uc := usecase.NewStationUseCase(f.stations, f.users, cacheRepo, publisher, zap.NewNop())
	_, err := uc.CreateStation(context.Background(), owner, validStationRequest())
	require.NoError(t, err)

	cacheRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpdateStation_Authorization(t *testing.T) {
	f := newFixture(t)
	st := f.addStation(t, 1, nil)

	_, err := f.station.UpdateStation(context.Background(), other, st.ID, validStationRequest())
	assert.ErrorIs(t, err, errors.ErrForbidden)

	resp, err := f.station.UpdateStation(context.Background(), admin, st.ID, validStationRequest())
	require.NoError(t, err)
	assert.Equal(t, "Downtown Hub", resp.Name)
	require.NotNil(t, resp.UpdatedBy)
	assert.Equal(t, adminID, resp.UpdatedBy.ID)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, ownerID, resp.CreatedBy.ID)
}

func TestUpdateStation_CheckOrder(t *testing.T) {
	f := newFixture(t)
	st := f.addStation(t, 1, nil)

	bad := validStationRequest()
	bad.Name = ""

	_, err := f.station.UpdateStation(context.Background(), owner, "not-a-uuid", bad)
	assert.ErrorIs(t, err, errors.ErrInvalidID)

	_, err = f.station.UpdateStation(context.Background(), owner, uuidFor(99), bad)
	assert.ErrorIs(t, err, errors.ErrStationNotFound)

	_, err = f.station.UpdateStation(context.Background(), other, st.ID, bad)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	_, err = f.station.UpdateStation(context.Background(), owner, st.ID, bad)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestDeleteStation(t *testing.T) {
	f := newFixture(t)
	st := f.addStation(t, 1, nil)

	err := f.station.DeleteStation(context.Background(), other, st.ID)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	require.NoError(t, f.station.DeleteStation(context.Background(), owner, st.ID))

	_, err = f.station.GetStation(context.Background(), st.ID)
	assert.ErrorIs(t, err, errors.ErrStationNotFound)

	err = f.station.DeleteStation(context.Background(), owner, st.ID)
	assert.ErrorIs(t, err, errors.ErrStationNotFound)
}

func TestUpdateAvailability(t *testing.T) {
	f := newFixture(t)
	st := f.addStation(t, 1, func(s *domain.Station) { s.TotalPorts = 4; s.AvailablePorts = 4 })

	resp, err := f.station.UpdateAvailability(context.Background(), owner, st.ID, &dto.AvailabilityRequest{AvailablePorts: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailablePorts)
	assert.False(t, resp.IsOperational)

	_, err = f.station.UpdateAvailability(context.Background(), owner, st.ID, &dto.AvailabilityRequest{AvailablePorts: intPtr(5)})
	require.Error(t, err)
	assert.Equal(t, []string{"availablePorts"}, fieldNames(t, err))

	_, err = f.station.UpdateAvailability(context.Background(), owner, st.ID, &dto.AvailabilityRequest{})
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = f.station.UpdateAvailability(context.Background(), other, st.ID, &dto.AvailabilityRequest{AvailablePorts: intPtr(1)})
	assert.ErrorIs(t, err, errors.ErrForbidden)

	stored, err := f.stations.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailablePorts)
}

func TestListByStatusAndConnector(t *testing.T) {
	f := newFixture(t)
	f.addStation(t, 1, nil)
	f.addStation(t, 2, func(s *domain.Station) { s.Status = domain.StationStatusOutOfOrder })
	f.addStation(t, 3, func(s *domain.Station) { s.ConnectorType = domain.ConnectorGBT })

	byStatus, err := f.station.ListByStatus(context.Background(), "Out of Order")
	require.NoError(t, err)
	assert.Equal(t, 1, byStatus.Count)

	byType, err := f.station.ListByConnectorType(context.Background(), "CCS1")
	require.NoError(t, err)
	assert.Equal(t, 2, byType.Count)
	assert.Len(t, byType.Stations, 2)

	_, err = f.station.ListByStatus(context.Background(), "Broken")
	assert.Equal(t, []string{"status"}, fieldNames(t, err))

	_, err = f.station.ListByConnectorType(context.Background(), "USB")
	assert.Equal(t, []string{"connectorType"}, fieldNames(t, err))
}

func TestGetStation_InvalidID(t *testing.T) {
	f := newFixture(t)
	_, err := f.station.GetStation(context.Background(), "123")
	assert.ErrorIs(t, err, errors.ErrInvalidID)
}
