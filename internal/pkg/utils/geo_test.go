package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	assert.InDelta(t, 0, HaversineDistance(37.7749, -122.4194, 37.7749, -122.4194), 1e-9)

	// San Francisco -> Los Angeles
	assert.InDelta(t, 559, HaversineDistance(37.7749, -122.4194, 34.0522, -118.2437), 2)

	// one degree of latitude
	assert.InDelta(t, 111195, HaversineDistanceMeters(0, 0, 1, 0), 10)
}

func TestValidateRadius(t *testing.T) {
	assert.False(t, ValidateRadius(0))
	assert.True(t, ValidateRadius(0.1))
	assert.True(t, ValidateRadius(100))
	assert.False(t, ValidateRadius(100.01))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(90, -180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, 181))
}
