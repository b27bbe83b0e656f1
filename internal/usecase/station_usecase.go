package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/validator"
	"github.com/ev-station-service/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StationUseCase обрабатывает CRUD станций
type StationUseCase struct {
	stationRepo repository.StationRepository
	cacheRepo   repository.CacheRepository
	publisher   repository.EventPublisher
	owners      *ownerResolver
	logger      *zap.Logger
	now         func() time.Time
}

// NewStationUseCase создает новый экземпляр StationUseCase
func NewStationUseCase(
	stationRepo repository.StationRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	publisher repository.EventPublisher,
	logger *zap.Logger,
) *StationUseCase {
	return &StationUseCase{
		stationRepo: stationRepo,
		cacheRepo:   cacheRepo,
		publisher:   publisher,
		owners:      newOwnerResolver(userRepo, logger),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetStation возвращает станцию по ID
func (uc *StationUseCase) GetStation(ctx context.Context, id string) (*dto.StationResponse, error) {
	station, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.owners.renderOne(ctx, station)
}

// CreateStation создаёт станцию от имени actor
func (uc *StationUseCase) CreateStation(ctx context.Context, actor domain.Actor, req *dto.StationRequest) (*dto.StationResponse, error) {
	if err := ValidateStationRequest(req); err != nil {
		return nil, err
	}

	now := uc.now()
	station := &domain.Station{
		ID:        uuid.New().String(),
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyStationRequest(station, req)

	if err := station.CheckInvariants(); err != nil {
		return nil, errors.Field("availablePorts", "Available ports cannot exceed total ports")
	}

	if err := uc.stationRepo.Create(ctx, station); err != nil {
		uc.logger.Error("Failed to create station", zap.String("name", station.Name), zap.Error(err))
		return nil, fmt.Errorf("create station: %w", err)
	}

	uc.logger.Info("Station created",
		zap.String("station_id", station.ID),
		zap.String("user_id", actor.UserID))

	uc.afterMutation(ctx, station.ID, domain.StationCreated, actor)
	return uc.owners.renderOne(ctx, station)
}

// UpdateStation полностью заменяет изменяемые поля станции
func (uc *StationUseCase) UpdateStation(ctx context.Context, actor domain.Actor, id string, req *dto.StationRequest) (*dto.StationResponse, error) {
	station, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(station) {
		return nil, errors.ErrForbidden.WithMessage("Not authorized to update this charging station")
	}
	if err := ValidateStationRequest(req); err != nil {
		return nil, err
	}

	applyStationRequest(station, req)
	station.UpdatedBy = actor.UserID
	station.UpdatedAt = uc.now()

	if err := station.CheckInvariants(); err != nil {
		return nil, errors.Field("availablePorts", "Available ports cannot exceed total ports")
	}

	if err := uc.stationRepo.Update(ctx, station); err != nil {
		uc.logger.Error("Failed to update station", zap.String("station_id", id), zap.Error(err))
		return nil, fmt.Errorf("update station: %w", err)
	}

	uc.afterMutation(ctx, station.ID, domain.StationUpdated, actor)
	return uc.owners.renderOne(ctx, station)
}

// DeleteStation удаляет станцию безвозвратно
func (uc *StationUseCase) DeleteStation(ctx context.Context, actor domain.Actor, id string) error {
	station, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(station) {
		return errors.ErrForbidden.WithMessage("Not authorized to delete this charging station")
	}

	if err := uc.stationRepo.Delete(ctx, id); err != nil {
		uc.logger.Error("Failed to delete station", zap.String("station_id", id), zap.Error(err))
		return fmt.Errorf("delete station: %w", err)
	}

	uc.logger.Info("Station deleted",
		zap.String("station_id", id),
		zap.String("user_id", actor.UserID))

	uc.afterMutation(ctx, id, domain.StationDeleted, actor)
	return nil
}

// UpdateAvailability меняет число свободных портов
func (uc *StationUseCase) UpdateAvailability(ctx context.Context, actor domain.Actor, id string, req *dto.AvailabilityRequest) (*dto.StationResponse, error) {
	station, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(station) {
		return nil, errors.ErrForbidden.WithMessage("Not authorized to update this charging station")
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if err := station.SetAvailablePorts(*req.AvailablePorts); err != nil {
		return nil, errors.Field("availablePorts", "Available ports cannot exceed total ports")
	}
	station.UpdatedBy = actor.UserID
	station.UpdatedAt = uc.now()

	if err := uc.stationRepo.Update(ctx, station); err != nil {
		uc.logger.Error("Failed to update availability", zap.String("station_id", id), zap.Error(err))
		return nil, fmt.Errorf("update availability: %w", err)
	}

	uc.afterMutation(ctx, station.ID, domain.StationAvailabilityUpdated, actor)
	return uc.owners.renderOne(ctx, station)
}

// ListByStatus возвращает все станции с указанным статусом
func (uc *StationUseCase) ListByStatus(ctx context.Context, status string) (*dto.StationsCountResponse, error) {
	s := domain.StationStatus(status)
	if !s.IsValid() {
		return nil, errors.Field("status", "Status must be Active, Inactive, Maintenance, or Out of Order")
	}
	return uc.listAll(ctx, domain.StationFilter{Status: &s})
}

// ListByConnectorType возвращает все станции с указанным типом разъёма
func (uc *StationUseCase) ListByConnectorType(ctx context.Context, connectorType string) (*dto.StationsCountResponse, error) {
	ct := domain.ConnectorType(connectorType)
	if !ct.IsValid() {
		return nil, errors.Field("connectorType", "Invalid connector type")
	}
	return uc.listAll(ctx, domain.StationFilter{ConnectorType: &ct})
}

func (uc *StationUseCase) listAll(ctx context.Context, filter domain.StationFilter) (*dto.StationsCountResponse, error) {
	stations, err := uc.stationRepo.Find(ctx, filter, domain.FindOptions{
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
	})
	if err != nil {
		uc.logger.Error("Failed to list stations", zap.Error(err))
		return nil, fmt.Errorf("list stations: %w", err)
	}

	items, err := uc.owners.render(ctx, stations)
	if err != nil {
		return nil, err
	}
	return &dto.StationsCountResponse{Stations: items, Count: len(items)}, nil
}

func (uc *StationUseCase) load(ctx context.Context, id string) (*domain.Station, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.ErrInvalidID
	}
	return uc.stationRepo.GetByID(ctx, id)
}

// afterMutation publishes the change and drops cached statistics.
// Errors are logged only.
func (uc *StationUseCase) afterMutation(ctx context.Context, stationID string, action domain.StationAction, actor domain.Actor) {
	event := domain.StationChangedEvent{
		StationID:  stationID,
		Action:     action,
		ActorID:    actor.UserID,
		OccurredAt: uc.now(),
	}
	if err := uc.publisher.PublishStationChanged(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish station event",
			zap.String("station_id", stationID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
	if err := uc.cacheRepo.InvalidateStats(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
	}
}

// ValidateStationRequest проверяет тело создания/обновления станции.
// availablePorts > totalPorts is reported on availablePorts after tag checks.
func ValidateStationRequest(req *dto.StationRequest) error {
	if req == nil {
		return errors.ErrInvalidRequest
	}

	var fields []errors.FieldError
	if err := validator.Validate(req); err != nil {
		appErr, ok := errors.As(err)
		if !ok {
			return err
		}
		fields = append(fields, appErr.Fields...)
	}

	if req.TotalPorts != nil && req.AvailablePorts != nil &&
		*req.AvailablePorts > *req.TotalPorts &&
		!hasField(fields, "availablePorts") && !hasField(fields, "totalPorts") {
		fields = append(fields, errors.FieldError{
			Field:   "availablePorts",
			Message: "Available ports cannot exceed total ports",
		})
	}

	if len(fields) > 0 {
		return errors.Validation(fields...)
	}
	return nil
}

// applyStationRequest копирует изменяемые поля и проставляет значения по умолчанию
func applyStationRequest(s *domain.Station, req *dto.StationRequest) {
	s.Name = strings.TrimSpace(req.Name)

	loc := req.Location
	s.Location = domain.StationLocation{
		Latitude:  *loc.Latitude,
		Longitude: *loc.Longitude,
		Address:   strings.TrimSpace(loc.Address),
		City:      strings.TrimSpace(loc.City),
		State:     strings.TrimSpace(loc.State),
		ZipCode:   strings.TrimSpace(loc.ZipCode),
		Country:   strings.TrimSpace(loc.Country),
	}
	if s.Location.Country == "" {
		s.Location.Country = domain.DefaultCountry
	}

	s.Status = domain.StationStatus(req.Status)
	if s.Status == "" {
		s.Status = domain.StationStatusActive
	}
	s.PowerOutput = *req.PowerOutput
	s.ConnectorType = domain.ConnectorType(req.ConnectorType)
	s.NetworkProvider = strings.TrimSpace(req.NetworkProvider)

	s.Pricing = domain.Pricing{Currency: domain.DefaultCurrency}
	if req.Pricing != nil {
		s.Pricing.PerKwh = req.Pricing.PerKwh
		s.Pricing.PerMinute = req.Pricing.PerMinute
		if c := strings.TrimSpace(req.Pricing.Currency); c != "" {
			s.Pricing.Currency = strings.ToUpper(c)
		}
	}

	amenities := make([]domain.Amenity, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		amenities = append(amenities, domain.Amenity(a))
	}
	s.Amenities = domain.NormalizeAmenities(amenities)

	s.OperatingHours = toOperatingHours(req.OperatingHours)
	s.Is24Hours = req.Is24Hours
	s.TotalPorts = *req.TotalPorts
	s.AvailablePorts = *req.AvailablePorts
}

func toOperatingHours(req *dto.OperatingHoursRequest) *domain.OperatingHours {
	if req == nil {
		return nil
	}
	day := func(d *dto.DayHoursRequest) *domain.DayHours {
		if d == nil {
			return nil
		}
		return &domain.DayHours{Start: d.Start, End: d.End}
	}
	return &domain.OperatingHours{
		Monday:    day(req.Monday),
		Tuesday:   day(req.Tuesday),
		Wednesday: day(req.Wednesday),
		Thursday:  day(req.Thursday),
		Friday:    day(req.Friday),
		Saturday:  day(req.Saturday),
		Sunday:    day(req.Sunday),
	}
}
