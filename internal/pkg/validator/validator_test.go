package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev-station-service/internal/pkg/errors"
)

type point struct {
	Lat *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
}

type sample struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Status   string   `json:"status" validate:"omitempty,station_status"`
	Location *point   `json:"location" validate:"required"`
	Tags     []string `json:"amenities" validate:"omitempty,dive,amenity"`
	Opens    string   `json:"opens" validate:"omitempty,hhmm"`
}

type sampleWithMessages struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Location *point   `json:"location" validate:"required"`
	Tags     []string `json:"amenities" validate:"omitempty,dive,amenity"`
}

func (sampleWithMessages) ValidationMessages() map[string]string {
	return map[string]string{
		"name":              "Name is too short",
		"location.latitude": "Latitude must be between -90 and 90",
		"amenities.amenity": "Invalid amenity",
	}
}

func fields(t *testing.T, err error) []errors.FieldError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrValidation.Code, appErr.Code)
	return appErr.Fields
}

func TestValidate_OK(t *testing.T) {
	lat := 10.0
	err := Validate(&sample{Name: "ok", Status: "Out of Order", Location: &point{Lat: &lat}, Tags: []string{"WiFi"}, Opens: "06:30"})
	assert.NoError(t, err)
}

func TestValidate_FieldOrderAndDefaultMessages(t *testing.T) {
	lat := 95.0
	got := fields(t, Validate(&sample{Name: "x", Status: "Closed", Location: &point{Lat: &lat}, Opens: "25:00"}))

	require.Len(t, got, 4)
	assert.Equal(t, errors.FieldError{Field: "name", Message: "name must be at least 2 characters long"}, got[0])
	assert.Equal(t, errors.FieldError{Field: "status", Message: "Status must be Active, Inactive, Maintenance, or Out of Order"}, got[1])
	assert.Equal(t, errors.FieldError{Field: "location.latitude", Message: "location.latitude cannot exceed 90"}, got[2])
	assert.Equal(t, errors.FieldError{Field: "opens", Message: "opens must be in HH:MM format"}, got[3])
}

func TestValidate_MessageProvider(t *testing.T) {
	lat := -91.0
	got := fields(t, Validate(&sampleWithMessages{
		Name:     "x",
		Location: &point{Lat: &lat},
		Tags:     []string{"WiFi", "Pool"},
	}))

	require.Len(t, got, 3)
	assert.Equal(t, "Name is too short", got[0].Message)
	assert.Equal(t, "location.latitude", got[1].Field)
	assert.Equal(t, "Latitude must be between -90 and 90", got[1].Message)
	assert.Equal(t, "amenities[1]", got[2].Field)
	assert.Equal(t, "Invalid amenity", got[2].Message)
}

func TestValidate_RequiredPointer(t *testing.T) {
	got := fields(t, Validate(&sample{Name: "ok"}))
	require.Len(t, got, 1)
	assert.Equal(t, errors.FieldError{Field: "location", Message: "location is required"}, got[0])
}
