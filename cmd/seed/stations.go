package main

import "github.com/ev-station-service/internal/usecase/dto"

type seedStation struct {
	name, provider, status, connector string
	lat, lon, power                   float64
	address, city, zip                string
	perKwh, perMinute                 float64
	amenities                         []string
	is24Hours                         bool
	total, available                  int
}

// Станции в районе залива Сан-Франциско
var sampleStations = []seedStation{
	{"Downtown SF Charging Hub", "ChargePoint", "Active", "CCS2", 37.7749, -122.4194, 150,
		"123 Market Street", "San Francisco", "94102", 0.35, 0.10,
		[]string{"WiFi", "Restrooms", "Food", "Shopping"}, true, 8, 6},
	{"Palo Alto Tesla Supercharger", "Tesla", "Active", "Tesla Supercharger", 37.4419, -122.1430, 250,
		"456 University Avenue", "Palo Alto", "94301", 0.42, 0,
		[]string{"WiFi", "Restrooms", "Shopping", "24/7 Access"}, true, 12, 10},
	{"Berkeley Campus Charger", "EVgo", "Active", "Type 2", 37.8715, -122.2730, 50,
		"789 Telegraph Avenue", "Berkeley", "94720", 0.30, 0.15,
		[]string{"WiFi", "Parking"}, false, 4, 3},
	{"Oakland Airport Fast Charge", "Electrify America", "Active", "CCS1", 37.7213, -122.2205, 180,
		"1 Airport Drive", "Oakland", "94621", 0.43, 0.12,
		[]string{"WiFi", "Restrooms", "Food", "Covered", "24/7 Access"}, true, 6, 4},
	{"San Jose Tech Plaza", "ChargePoint", "Maintenance", "CHAdeMO", 37.3382, -121.8863, 75,
		"321 Tech Plaza Drive", "San Jose", "95110", 0.32, 0.08,
		[]string{"WiFi", "Food"}, false, 3, 0},
	{"Fremont Manufacturing Plant", "Tesla", "Inactive", "CCS2", 37.5485, -121.9886, 120,
		"45500 Fremont Blvd", "Fremont", "94538", 0.28, 0,
		[]string{"Parking"}, false, 5, 0},
	{"Redwood City Shopping Center", "ChargePoint", "Active", "Type 2", 37.4852, -122.2364, 100,
		"1 Broadway", "Redwood City", "94063", 0.33, 0.05,
		[]string{"Shopping", "Food", "Restrooms"}, false, 6, 5},
	{"Half Moon Bay Coastal Charger", "EVgo", "Out of Order", "Type 1", 37.4636, -122.4286, 50,
		"500 Highway 1", "Half Moon Bay", "94019", 0.38, 0.10,
		[]string{"Parking"}, false, 2, 0},
}

func (s seedStation) request() *dto.StationRequest {
	lat, lon, power := s.lat, s.lon, s.power
	perKwh, perMinute := s.perKwh, s.perMinute
	total, available := s.total, s.available

	req := &dto.StationRequest{
		Name: s.name,
		Location: &dto.LocationRequest{
			Latitude:  &lat,
			Longitude: &lon,
			Address:   s.address,
			City:      s.city,
			State:     "CA",
			ZipCode:   s.zip,
			Country:   "USA",
		},
		Status:          s.status,
		PowerOutput:     &power,
		ConnectorType:   s.connector,
		NetworkProvider: s.provider,
		Pricing:         &dto.PricingRequest{PerKwh: &perKwh, PerMinute: &perMinute, Currency: "USD"},
		Amenities:       s.amenities,
		Is24Hours:       s.is24Hours,
		TotalPorts:      &total,
		AvailablePorts:  &available,
	}
	if !s.is24Hours {
		weekday := &dto.DayHoursRequest{Start: "07:00", End: "22:00"}
		req.OperatingHours = &dto.OperatingHoursRequest{
			Monday: weekday, Tuesday: weekday, Wednesday: weekday, Thursday: weekday, Friday: weekday,
			Saturday: &dto.DayHoursRequest{Start: "09:00", End: "20:00"},
		}
	}
	return req
}
