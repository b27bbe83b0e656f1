package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ev-station-service/internal/domain"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		want  Pagination
	}{
		{"empty", 1, 10, 0, Pagination{CurrentPage: 1}},
		{"exact", 2, 10, 20, Pagination{CurrentPage: 2, TotalPages: 2, TotalStations: 20, HasPrevPage: true}},
		{"partial last page", 1, 10, 23, Pagination{CurrentPage: 1, TotalPages: 3, TotalStations: 23, HasNextPage: true}},
		{"past the end", 5, 10, 23, Pagination{CurrentPage: 5, TotalPages: 3, TotalStations: 23, HasPrevPage: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit, tt.total))
		})
	}
}

func TestNewStationResponse(t *testing.T) {
	s := &domain.Station{
		ID:             "s1",
		Status:         domain.StationStatusActive,
		AvailablePorts: 1,
		TotalPorts:     2,
		CreatedBy:      "u1",
		UpdatedBy:      "gone",
	}
	refs := map[string]domain.UserRef{"u1": {ID: "u1", Name: "Jane", Email: "jane@test.com"}}

	resp := NewStationResponse(s, refs)

	assert.True(t, resp.IsOperational)
	assert.NotNil(t, resp.Amenities)
	assert.Empty(t, resp.Amenities)
	if assert.NotNil(t, resp.CreatedBy) {
		assert.Equal(t, "Jane", resp.CreatedBy.Name)
	}
	assert.Nil(t, resp.UpdatedBy)
}
