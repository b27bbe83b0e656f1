package domain

import (
	"errors"
	"time"
)

// StationStatus - эксплуатационный статус станции
type StationStatus string

const (
	StationStatusActive      StationStatus = "Active"
	StationStatusInactive    StationStatus = "Inactive"
	StationStatusMaintenance StationStatus = "Maintenance"
	StationStatusOutOfOrder  StationStatus = "Out of Order"
)

// StationStatuses lists every accepted status in display order.
var StationStatuses = []StationStatus{
	StationStatusActive,
	StationStatusInactive,
	StationStatusMaintenance,
	StationStatusOutOfOrder,
}

// IsValid reports whether s is one of StationStatuses.
func (s StationStatus) IsValid() bool {
	for _, v := range StationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ConnectorType - тип разъёма станции
type ConnectorType string

const (
	ConnectorType1   ConnectorType = "Type 1"
	ConnectorType2   ConnectorType = "Type 2"
	ConnectorCCS1    ConnectorType = "CCS1"
	ConnectorCCS2    ConnectorType = "CCS2"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorTeslaSC ConnectorType = "Tesla Supercharger"
	ConnectorGBT     ConnectorType = "GB/T"
)

var ConnectorTypes = []ConnectorType{
	ConnectorType1,
	ConnectorType2,
	ConnectorCCS1,
	ConnectorCCS2,
	ConnectorCHAdeMO,
	ConnectorTeslaSC,
	ConnectorGBT,
}

func (c ConnectorType) IsValid() bool {
	for _, v := range ConnectorTypes {
		if v == c {
			return true
		}
	}
	return false
}

// Amenity - удобство на территории станции
type Amenity string

const (
	AmenityWiFi      Amenity = "WiFi"
	AmenityRestrooms Amenity = "Restrooms"
	AmenityFood      Amenity = "Food"
	AmenityShopping  Amenity = "Shopping"
	AmenityParking   Amenity = "Parking"
	AmenityCovered   Amenity = "Covered"
	Amenity24x7      Amenity = "24/7 Access"
)

var Amenities = []Amenity{
	AmenityWiFi,
	AmenityRestrooms,
	AmenityFood,
	AmenityShopping,
	AmenityParking,
	AmenityCovered,
	Amenity24x7,
}

func (a Amenity) IsValid() bool {
	for _, v := range Amenities {
		if v == a {
			return true
		}
	}
	return false
}

// Port and power limits shared by validation and stores.
const (
	MinPowerOutput = 1
	MaxPowerOutput = 1000
	MinTotalPorts  = 1
	MaxTotalPorts  = 50

	DefaultCountry  = "USA"
	DefaultCurrency = "USD"
)

// ErrInvalidPortCount is returned when availablePorts leaves [0, totalPorts].
var ErrInvalidPortCount = errors.New("available ports cannot exceed total ports")

// StationLocation - координаты и адрес станции
type StationLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	ZipCode   string  `json:"zipCode,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// Pricing - тарифы станции
type Pricing struct {
	PerKwh    *float64 `json:"perKwh,omitempty"`
	PerMinute *float64 `json:"perMinute,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

// DayHours - часы работы за один день, формат HH:MM
type DayHours struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// OperatingHours - расписание по дням недели
type OperatingHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// Station представляет зарядную станцию
type Station struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Location        StationLocation `json:"location"`
	Status          StationStatus   `json:"status"`
	PowerOutput     float64         `json:"powerOutput"`
	ConnectorType   ConnectorType   `json:"connectorType"`
	NetworkProvider string          `json:"networkProvider,omitempty"`
	Pricing         Pricing         `json:"pricing"`
	Amenities       []Amenity       `json:"amenities"`
	OperatingHours  *OperatingHours `json:"operatingHours,omitempty"`
	Is24Hours       bool            `json:"is24Hours"`
	TotalPorts      int             `json:"totalPorts"`
	AvailablePorts  int             `json:"availablePorts"`
	CreatedBy       string          `json:"createdBy"`
	UpdatedBy       string          `json:"updatedBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// Distance is set only by geo queries, in meters.
	Distance *float64 `json:"distance,omitempty"`
}

// IsOperational reports whether the station can accept a vehicle right now.
func (s *Station) IsOperational() bool {
	return s.Status == StationStatusActive && s.AvailablePorts > 0
}

// IsOwnedBy reports whether userID created the station.
func (s *Station) IsOwnedBy(userID string) bool {
	return s.CreatedBy != "" && s.CreatedBy == userID
}

// SetAvailablePorts enforces 0 <= n <= TotalPorts.
func (s *Station) SetAvailablePorts(n int) error {
	if n < 0 || n > s.TotalPorts {
		return ErrInvalidPortCount
	}
	s.AvailablePorts = n
	return nil
}

// CheckInvariants validates the port invariant before persistence.
func (s *Station) CheckInvariants() error {
	if s.AvailablePorts < 0 || s.AvailablePorts > s.TotalPorts {
		return ErrInvalidPortCount
	}
	return nil
}

// NormalizeAmenities removes duplicates keeping first-seen order.
func NormalizeAmenities(in []Amenity) []Amenity {
	out := make([]Amenity, 0, len(in))
	seen := make(map[Amenity]struct{}, len(in))
	for _, a := range in {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
