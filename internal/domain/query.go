package domain

// SortField - поле сортировки для списка станций
type SortField string

const (
	SortByCreatedAt      SortField = "createdAt"
	SortByUpdatedAt      SortField = "updatedAt"
	SortByName           SortField = "name"
	SortByPowerOutput    SortField = "powerOutput"
	SortByStatus         SortField = "status"
	SortByConnectorType  SortField = "connectorType"
	SortByTotalPorts     SortField = "totalPorts"
	SortByAvailablePorts SortField = "availablePorts"
	SortByDistance       SortField = "distance"
)

// SortFields lists every accepted sort key.
var SortFields = []SortField{
	SortByCreatedAt,
	SortByUpdatedAt,
	SortByName,
	SortByPowerOutput,
	SortByStatus,
	SortByConnectorType,
	SortByTotalPorts,
	SortByAvailablePorts,
	SortByDistance,
}

func (f SortField) IsValid() bool {
	for _, v := range SortFields {
		if v == f {
			return true
		}
	}
	return false
}

// SortOrder - направление сортировки
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// StationFilter - точные совпадения и диапазон мощности.
// Nil fields are not applied; power bounds are inclusive.
type StationFilter struct {
	Status         *StationStatus
	ConnectorType  *ConnectorType
	MinPowerOutput *float64
	MaxPowerOutput *float64
}

// Matches reports whether s satisfies every set predicate.
func (f StationFilter) Matches(s *Station) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.ConnectorType != nil && s.ConnectorType != *f.ConnectorType {
		return false
	}
	if f.MinPowerOutput != nil && s.PowerOutput < *f.MinPowerOutput {
		return false
	}
	if f.MaxPowerOutput != nil && s.PowerOutput > *f.MaxPowerOutput {
		return false
	}
	return true
}

// GeoFilter - центр и радиус поиска
type GeoFilter struct {
	Lat      float64
	Lon      float64
	RadiusKm float64
}

// RadiusMeters returns the radius in meters.
func (g GeoFilter) RadiusMeters() float64 {
	return g.RadiusKm * 1000
}

// FindOptions - сортировка и окно выдачи.
// Stores append createdAt and id as tie-breakers in the same direction as Sort.
// Limit 0 returns every row after Skip.
type FindOptions struct {
	SortBy    SortField
	SortOrder SortOrder
	Skip      int
	Limit     int
}

// Descending reports whether the primary order is descending.
func (o FindOptions) Descending() bool {
	return o.SortOrder == SortDesc
}
