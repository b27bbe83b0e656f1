package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/utils"
)

// StationStore - потокобезопасное хранилище станций в памяти.
// Used as STORE_DRIVER=memory and as the fake in unit tests.
type StationStore struct {
	mu       sync.RWMutex
	stations map[string]*domain.Station
}

// NewStationStore создает пустое хранилище
func NewStationStore() *StationStore {
	return &StationStore{stations: make(map[string]*domain.Station)}
}

var _ repository.StationRepository = (*StationStore)(nil)

func (s *StationStore) Create(ctx context.Context, station *domain.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[station.ID]; ok {
		return errors.ErrDatabaseError.WithMessage("Station already exists")
	}
	s.stations[station.ID] = cloneStation(station)
	return nil
}

func (s *StationStore) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	station, ok := s.stations[id]
	if !ok {
		return nil, errors.ErrStationNotFound
	}
	return cloneStation(station), nil
}

func (s *StationStore) Update(ctx context.Context, station *domain.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[station.ID]; !ok {
		return errors.ErrStationNotFound
	}
	s.stations[station.ID] = cloneStation(station)
	return nil
}

func (s *StationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[id]; !ok {
		return errors.ErrStationNotFound
	}
	delete(s.stations, id)
	return nil
}

func (s *StationStore) Find(ctx context.Context, filter domain.StationFilter, opts domain.FindOptions) ([]*domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*domain.Station, 0, len(s.stations))
	for _, st := range s.stations {
		if filter.Matches(st) {
			matched = append(matched, cloneStation(st))
		}
	}
	s.mu.RUnlock()

	sortStations(matched, opts)
	return window(matched, opts.Skip, opts.Limit), nil
}

func (s *StationStore) Count(ctx context.Context, filter domain.StationFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, st := range s.stations {
		if filter.Matches(st) {
			n++
		}
	}
	return n, nil
}

func (s *StationStore) FindNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter, opts domain.FindOptions) ([]*domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*domain.Station, 0)
	for _, st := range s.stations {
		if !filter.Matches(st) {
			continue
		}
		d, ok := within(st, near)
		if !ok {
			continue
		}
		cp := cloneStation(st)
		cp.Distance = &d
		matched = append(matched, cp)
	}
	s.mu.RUnlock()

	sortStations(matched, opts)
	return window(matched, opts.Skip, opts.Limit), nil
}

func (s *StationStore) CountNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, st := range s.stations {
		if !filter.Matches(st) {
			continue
		}
		if _, ok := within(st, near); ok {
			n++
		}
	}
	return n, nil
}

// snapshot returns copies of every station; used by stats.
func (s *StationStore) snapshot() []*domain.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Station, 0, len(s.stations))
	for _, st := range s.stations {
		out = append(out, cloneStation(st))
	}
	return out
}

// within returns the distance in meters and whether it is inside the radius.
func within(st *domain.Station, near domain.GeoFilter) (float64, bool) {
	d := utils.HaversineDistanceMeters(near.Lat, near.Lon, st.Location.Latitude, st.Location.Longitude)
	return d, d <= near.RadiusMeters()
}

func sortStations(items []*domain.Station, opts domain.FindOptions) {
	field := opts.SortBy
	if field == "" {
		field = domain.SortByCreatedAt
	}
	desc := opts.Descending()

	sort.SliceStable(items, func(i, j int) bool {
		c := compareBy(items[i], items[j], field)
		if c == 0 {
			c = compareBy(items[i], items[j], domain.SortByCreatedAt)
		}
		if c == 0 {
			c = strings.Compare(items[i].ID, items[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(a, b *domain.Station, field domain.SortField) int {
	switch field {
	case domain.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case domain.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case domain.SortByName:
		return strings.Compare(a.Name, b.Name)
	case domain.SortByPowerOutput:
		return compareFloat(a.PowerOutput, b.PowerOutput)
	case domain.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case domain.SortByConnectorType:
		return strings.Compare(string(a.ConnectorType), string(b.ConnectorType))
	case domain.SortByTotalPorts:
		return a.TotalPorts - b.TotalPorts
	case domain.SortByAvailablePorts:
		return a.AvailablePorts - b.AvailablePorts
	case domain.SortByDistance:
		return compareFloat(distanceOf(a), distanceOf(b))
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func distanceOf(s *domain.Station) float64 {
	if s.Distance == nil {
		return 0
	}
	return *s.Distance
}

func window(items []*domain.Station, skip, limit int) []*domain.Station {
	if skip >= len(items) {
		return []*domain.Station{}
	}
	if skip > 0 {
		items = items[skip:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneStation(s *domain.Station) *domain.Station {
	cp := *s
	if s.Amenities != nil {
		cp.Amenities = append([]domain.Amenity(nil), s.Amenities...)
	}
	if s.Pricing.PerKwh != nil {
		v := *s.Pricing.PerKwh
		cp.Pricing.PerKwh = &v
	}
	if s.Pricing.PerMinute != nil {
		v := *s.Pricing.PerMinute
		cp.Pricing.PerMinute = &v
	}
	if s.OperatingHours != nil {
		oh := *s.OperatingHours
		cp.OperatingHours = &oh
	}
	cp.Distance = nil
	return &cp
}
