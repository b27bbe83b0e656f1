package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/validator"
	"github.com/ev-station-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// Значения по умолчанию для выборки станций
const (
	DefaultPage     = 1
	DefaultLimit    = 10
	MaxLimit        = 100
	DefaultRadiusKm = 10.0
)

// MaxPage - верхняя граница page, при которой (page-1)*limit не переполняет int
const MaxPage = math.MaxInt / MaxLimit

// queryFieldOrder - порядок полей в списке ошибок валидации
var queryFieldOrder = []string{
	"status",
	"connectorType",
	"minPowerOutput",
	"maxPowerOutput",
	"latitude",
	"longitude",
	"radius",
	"page",
	"limit",
	"sortBy",
	"sortOrder",
}

// StationQuery - провалидированные параметры выборки
type StationQuery struct {
	Filter    domain.StationFilter
	Geo       *domain.GeoFilter
	Page      int
	Limit     int
	SortBy    domain.SortField
	SortOrder domain.SortOrder
}

// FindOptions converts page/limit into a skip/limit window.
func (q StationQuery) FindOptions() domain.FindOptions {
	return domain.FindOptions{
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Skip:      (q.Page - 1) * q.Limit,
		Limit:     q.Limit,
	}
}

// stationQueryParams - типизированные параметры для go-playground/validator.
// Field order matches queryFieldOrder.
type stationQueryParams struct {
	Status         *string  `json:"status" validate:"omitempty,station_status"`
	ConnectorType  *string  `json:"connectorType" validate:"omitempty,connector_type"`
	MinPowerOutput *float64 `json:"minPowerOutput" validate:"omitempty,gte=1,lte=1000"`
	MaxPowerOutput *float64 `json:"maxPowerOutput" validate:"omitempty,gte=1,lte=1000"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Radius         float64  `json:"radius" validate:"gt=0,lte=100"`
	Page           int      `json:"page" validate:"gte=1"`
	Limit          int      `json:"limit" validate:"gte=1,lte=100"`
	SortBy         string   `json:"sortBy" validate:"sort_field"`
	SortOrder      string   `json:"sortOrder" validate:"oneof=asc desc"`
}

func (stationQueryParams) ValidationMessages() map[string]string {
	return map[string]string{
		"status":         "Invalid status filter",
		"connectorType":  "Invalid connector type filter",
		"minPowerOutput": "Minimum power output must be between 1 and 1000 kW",
		"maxPowerOutput": "Maximum power output must be between 1 and 1000 kW",
		"latitude":       "Latitude must be between -90 and 90",
		"longitude":      "Longitude must be between -180 and 180",
		"radius":         "Radius must be greater than 0 and at most 100 km",
		"page":           "Page must be a positive integer",
		"limit":          "Limit must be between 1 and 100",
		"sortOrder":      "Sort order must be asc or desc",
	}
}

// ParseStationQuery проверяет сырые параметры и собирает StationQuery.
// All problems are reported together, ordered by queryFieldOrder.
func ParseStationQuery(req dto.StationQueryRequest) (StationQuery, error) {
	p := stationQueryParams{
		Radius:    DefaultRadiusKm,
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    string(domain.SortByCreatedAt),
		SortOrder: string(domain.SortDesc),
	}
	messages := p.ValidationMessages()

	var fields []errors.FieldError
	fail := func(field string) {
		fields = append(fields, errors.FieldError{Field: field, Message: messages[field]})
	}

	p.Status = optionalString(req.Status)
	p.ConnectorType = optionalString(req.ConnectorType)

	floats := []struct {
		field string
		raw   string
		dst   **float64
	}{
		{"minPowerOutput", req.MinPowerOutput, &p.MinPowerOutput},
		{"maxPowerOutput", req.MaxPowerOutput, &p.MaxPowerOutput},
		{"latitude", req.Latitude, &p.Latitude},
		{"longitude", req.Longitude, &p.Longitude},
	}
	for _, f := range floats {
		v, ok, err := parseOptionalFloat(f.raw)
		if err != nil {
			fail(f.field)
			continue
		}
		if ok {
			*f.dst = &v
		}
	}

	if v, ok, err := parseOptionalFloat(req.Radius); err != nil {
		fail("radius")
	} else if ok {
		p.Radius = v
	}
	if v, ok, err := parseOptionalInt(req.Page); err != nil {
		fail("page")
	} else if ok {
		p.Page = v
	}
	if v, ok, err := parseOptionalInt(req.Limit); err != nil {
		fail("limit")
	} else if ok {
		p.Limit = v
	}
	if s := strings.TrimSpace(req.SortBy); s != "" {
		p.SortBy = s
	}
	if s := strings.TrimSpace(req.SortOrder); s != "" {
		p.SortOrder = strings.ToLower(s)
	}

	if err := validator.Validate(&p); err != nil {
		appErr, ok := errors.As(err)
		if !ok {
			return StationQuery{}, err
		}
		fields = append(fields, appErr.Fields...)
	}

	if p.Page > MaxPage && !hasField(fields, "page") {
		fields = append(fields, errors.FieldError{
			Field:   "page",
			Message: fmt.Sprintf("Page must be at most %d", MaxPage),
		})
	}

	geoMode := p.Latitude != nil && p.Longitude != nil

	if p.MinPowerOutput != nil && p.MaxPowerOutput != nil && *p.MinPowerOutput > *p.MaxPowerOutput &&
		!hasField(fields, "minPowerOutput") && !hasField(fields, "maxPowerOutput") {
		fields = append(fields, errors.FieldError{
			Field:   "maxPowerOutput",
			Message: "Maximum power output must be greater than or equal to minimum power output",
		})
	}
	if domain.SortField(p.SortBy) == domain.SortByDistance && !geoMode && !hasField(fields, "sortBy") {
		fields = append(fields, errors.FieldError{
			Field:   "sortBy",
			Message: "Sorting by distance requires latitude and longitude",
		})
	}

	if len(fields) > 0 {
		sortFieldErrors(fields)
		return StationQuery{}, errors.Validation(fields...)
	}

	q := StationQuery{
		Page:      p.Page,
		Limit:     p.Limit,
		SortBy:    domain.SortField(p.SortBy),
		SortOrder: domain.SortOrder(p.SortOrder),
	}
	if p.Status != nil {
		status := domain.StationStatus(*p.Status)
		q.Filter.Status = &status
	}
	if p.ConnectorType != nil {
		ct := domain.ConnectorType(*p.ConnectorType)
		q.Filter.ConnectorType = &ct
	}
	q.Filter.MinPowerOutput = p.MinPowerOutput
	q.Filter.MaxPowerOutput = p.MaxPowerOutput

	if geoMode {
		q.Geo = &domain.GeoFilter{Lat: *p.Latitude, Lon: *p.Longitude, RadiusKm: p.Radius}
	}

	return q, nil
}

// StationQueryUseCase - выборка станций с фильтрами, гео-поиском и пагинацией
type StationQueryUseCase struct {
	stationRepo repository.StationRepository
	owners      *ownerResolver
	logger      *zap.Logger
}

// NewStationQueryUseCase создает новый экземпляр StationQueryUseCase
func NewStationQueryUseCase(
	stationRepo repository.StationRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *StationQueryUseCase {
	return &StationQueryUseCase{
		stationRepo: stationRepo,
		owners:      newOwnerResolver(userRepo, logger),
		logger:      logger,
	}
}

// ListStations возвращает страницу станций по параметрам запроса
func (uc *StationQueryUseCase) ListStations(ctx context.Context, req dto.StationQueryRequest) (*dto.StationListResponse, error) {
	q, err := ParseStationQuery(req)
	if err != nil {
		return nil, err
	}

	var (
		stations []*domain.Station
		total    int64
	)

	opts := q.FindOptions()
	if q.Geo != nil {
		stations, err = uc.stationRepo.FindNear(ctx, q.Filter, *q.Geo, opts)
		if err == nil {
			total, err = uc.stationRepo.CountNear(ctx, q.Filter, *q.Geo)
		}
	} else {
		stations, err = uc.stationRepo.Find(ctx, q.Filter, opts)
		if err == nil {
			total, err = uc.stationRepo.Count(ctx, q.Filter)
		}
	}
	if err != nil {
		uc.logger.Error("Failed to list stations",
			zap.Bool("geo", q.Geo != nil),
			zap.String("sort_by", string(q.SortBy)),
			zap.Error(err))
		return nil, fmt.Errorf("list stations: %w", err)
	}

	items, err := uc.owners.render(ctx, stations)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Stations listed",
		zap.Int("page", q.Page),
		zap.Int("returned", len(items)),
		zap.Int64("total", total))

	return &dto.StationListResponse{
		Stations:   items,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseOptionalFloat(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("not a finite number: %s", s)
	}
	return v, true, nil
}

func parseOptionalInt(s string) (int, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func hasField(fields []errors.FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

func sortFieldErrors(fields []errors.FieldError) {
	rank := make(map[string]int, len(queryFieldOrder))
	for i, f := range queryFieldOrder {
		rank[f] = i
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return rank[fields[i].Field] < rank[fields[j].Field]
	})
}
