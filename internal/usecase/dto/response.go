package dto

import (
	"time"

	"github.com/ev-station-service/internal/domain"
)

// StationResponse - станция с развёрнутыми владельцами
type StationResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Location        domain.StationLocation `json:"location"`
	Status          domain.StationStatus   `json:"status"`
	PowerOutput     float64                `json:"powerOutput"`
	ConnectorType   domain.ConnectorType   `json:"connectorType"`
	NetworkProvider string                 `json:"networkProvider,omitempty"`
	Pricing         domain.Pricing         `json:"pricing"`
	Amenities       []domain.Amenity       `json:"amenities"`
	OperatingHours  *domain.OperatingHours `json:"operatingHours,omitempty"`
	Is24Hours       bool                   `json:"is24Hours"`
	TotalPorts      int                    `json:"totalPorts"`
	AvailablePorts  int                    `json:"availablePorts"`
	IsOperational   bool                   `json:"isOperational"`
	CreatedBy       *domain.UserRef        `json:"createdBy"`
	UpdatedBy       *domain.UserRef        `json:"updatedBy"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	Distance        *float64               `json:"distance,omitempty"` // meters
}

// NewStationResponse builds the response from a station and resolved owners.
// Owners missing from refs are rendered as null.
func NewStationResponse(s *domain.Station, refs map[string]domain.UserRef) StationResponse {
	amenities := s.Amenities
	if amenities == nil {
		amenities = []domain.Amenity{}
	}

	return StationResponse{
		ID:              s.ID,
		Name:            s.Name,
		Location:        s.Location,
		Status:          s.Status,
		PowerOutput:     s.PowerOutput,
		ConnectorType:   s.ConnectorType,
		NetworkProvider: s.NetworkProvider,
		Pricing:         s.Pricing,
		Amenities:       amenities,
		OperatingHours:  s.OperatingHours,
		Is24Hours:       s.Is24Hours,
		TotalPorts:      s.TotalPorts,
		AvailablePorts:  s.AvailablePorts,
		IsOperational:   s.IsOperational(),
		CreatedBy:       lookupRef(refs, s.CreatedBy),
		UpdatedBy:       lookupRef(refs, s.UpdatedBy),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Distance:        s.Distance,
	}
}

func lookupRef(refs map[string]domain.UserRef, id string) *domain.UserRef {
	if id == "" {
		return nil
	}
	ref, ok := refs[id]
	if !ok {
		return nil
	}
	return &ref
}

// Pagination - метаданные страницы
type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalStations int64 `json:"totalStations"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

// NewPagination computes page metadata for total matches.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalStations: total,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
	}
}

// StationListResponse - ответ GET /api/stations
type StationListResponse struct {
	Stations   []StationResponse `json:"stations"`
	Pagination Pagination        `json:"pagination"`
}

// StationsCountResponse - ответ для выборок по статусу и типу разъёма
type StationsCountResponse struct {
	Stations []StationResponse `json:"stations"`
	Count    int               `json:"count"`
}

// StationEnvelope - одна станция в поле data
type StationEnvelope struct {
	Station StationResponse `json:"station"`
}

// AuthResponse - пользователь и выданный токен
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// UserEnvelope - пользователь в поле data
type UserEnvelope struct {
	User *domain.User `json:"user"`
}
