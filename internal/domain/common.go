package domain

import "time"

// Statistics - агрегированная статистика по станциям
type Statistics struct {
	Overview       StationOverview  `json:"overview"`
	ConnectorTypes []ConnectorCount `json:"connectorTypes"`
	LastUpdated    time.Time        `json:"lastUpdated"`
}

// StationOverview - сводные счётчики
type StationOverview struct {
	TotalStations       int     `json:"totalStations"`
	ActiveStations      int     `json:"activeStations"`
	InactiveStations    int     `json:"inactiveStations"`
	MaintenanceStations int     `json:"maintenanceStations"`
	OutOfOrderStations  int     `json:"outOfOrderStations"`
	TotalPorts          int     `json:"totalPorts"`
	TotalAvailablePorts int     `json:"totalAvailablePorts"`
	AveragePowerOutput  float64 `json:"averagePowerOutput"`
}

// ConnectorCount - число станций по типу разъёма
type ConnectorCount struct {
	ConnectorType ConnectorType `json:"connectorType"`
	Count         int           `json:"count"`
}

// CountStatus increments the per-status counter for s.
func (o *StationOverview) CountStatus(s StationStatus) {
	switch s {
	case StationStatusActive:
		o.ActiveStations++
	case StationStatusInactive:
		o.InactiveStations++
	case StationStatusMaintenance:
		o.MaintenanceStations++
	case StationStatusOutOfOrder:
		o.OutOfOrderStations++
	}
}
