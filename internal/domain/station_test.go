package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStation_SetAvailablePorts(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		available   int
		expectErr   bool
		description string
	}{
		{
			name:        "zero ports available",
			total:       4,
			available:   0,
			description: "Zero is a valid lower bound",
		},
		{
			name:        "all ports available",
			total:       4,
			available:   4,
			description: "Available may equal total",
		},
		{
			name:        "more than total",
			total:       4,
			available:   5,
			expectErr:   true,
			description: "Available cannot exceed total",
		},
		{
			name:        "negative",
			total:       4,
			available:   -1,
			expectErr:   true,
			description: "Available cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Station{TotalPorts: tt.total, AvailablePorts: 1}
			err := s.SetAvailablePorts(tt.available)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidPortCount, tt.description)
				assert.Equal(t, 1, s.AvailablePorts, "value must not change on error")
				return
			}
			assert.NoError(t, err, tt.description)
			assert.Equal(t, tt.available, s.AvailablePorts)
		})
	}
}

func TestStation_IsOperational(t *testing.T) {
	assert.True(t, (&Station{Status: StationStatusActive, AvailablePorts: 1}).IsOperational())
	assert.False(t, (&Station{Status: StationStatusActive, AvailablePorts: 0}).IsOperational())
	assert.False(t, (&Station{Status: StationStatusMaintenance, AvailablePorts: 3}).IsOperational())
}

func TestActor_CanModify(t *testing.T) {
	station := &Station{CreatedBy: "owner"}

	assert.True(t, Actor{UserID: "owner", Role: RoleUser}.CanModify(station))
	assert.True(t, Actor{UserID: "someone", Role: RoleAdmin}.CanModify(station))
	assert.False(t, Actor{UserID: "someone", Role: RoleUser}.CanModify(station))
	assert.False(t, Actor{UserID: "", Role: RoleUser}.CanModify(&Station{}))
}

func TestNormalizeAmenities(t *testing.T) {
	got := NormalizeAmenities([]Amenity{AmenityWiFi, AmenityFood, AmenityWiFi, AmenityParking, AmenityFood})
	assert.Equal(t, []Amenity{AmenityWiFi, AmenityFood, AmenityParking}, got)
	assert.Empty(t, NormalizeAmenities(nil))
}

func TestStationFilter_Matches(t *testing.T) {
	active := StationStatusActive
	ccs := ConnectorCCS1
	min, max := 50.0, 150.0

	filter := StationFilter{Status: &active, ConnectorType: &ccs, MinPowerOutput: &min, MaxPowerOutput: &max}

	assert.True(t, filter.Matches(&Station{Status: active, ConnectorType: ccs, PowerOutput: 50}), "lower bound is inclusive")
	assert.True(t, filter.Matches(&Station{Status: active, ConnectorType: ccs, PowerOutput: 150}), "upper bound is inclusive")
	assert.False(t, filter.Matches(&Station{Status: active, ConnectorType: ccs, PowerOutput: 151}))
	assert.False(t, filter.Matches(&Station{Status: StationStatusInactive, ConnectorType: ccs, PowerOutput: 100}))
	assert.False(t, filter.Matches(&Station{Status: active, ConnectorType: ConnectorType2, PowerOutput: 100}))
	assert.True(t, StationFilter{}.Matches(&Station{}), "empty filter matches everything")
}

func TestEnums(t *testing.T) {
	assert.True(t, StationStatus("Out of Order").IsValid())
	assert.False(t, StationStatus("Broken").IsValid())
	assert.True(t, ConnectorType("GB/T").IsValid())
	assert.False(t, ConnectorType("Type 3").IsValid())
	assert.True(t, Amenity("24/7 Access").IsValid())
	assert.False(t, Amenity("Pool").IsValid())
	assert.True(t, SortByDistance.IsValid())
	assert.False(t, SortField("price").IsValid())
}
