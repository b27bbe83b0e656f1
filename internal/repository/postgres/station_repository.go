package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const stationColumns = `
	id, name, latitude, longitude, address, city, state, zip_code, country,
	status, power_output, connector_type, network_provider,
	price_per_kwh, price_per_minute, currency, amenities, operating_hours, is_24_hours,
	total_ports, available_ports, created_by, updated_by, created_at, updated_at`

// stationRow - строка таблицы stations
type stationRow struct {
	ID              string          `db:"id"`
	Name            string          `db:"name"`
	Latitude        float64         `db:"latitude"`
	Longitude       float64         `db:"longitude"`
	Address         string          `db:"address"`
	City            string          `db:"city"`
	State           string          `db:"state"`
	ZipCode         string          `db:"zip_code"`
	Country         string          `db:"country"`
	Status          string          `db:"status"`
	PowerOutput     float64         `db:"power_output"`
	ConnectorType   string          `db:"connector_type"`
	NetworkProvider string          `db:"network_provider"`
	PricePerKwh     sql.NullFloat64 `db:"price_per_kwh"`
	PricePerMinute  sql.NullFloat64 `db:"price_per_minute"`
	Currency        string          `db:"currency"`
	Amenities       pq.StringArray  `db:"amenities"`
	OperatingHours  []byte          `db:"operating_hours"`
	Is24Hours       bool            `db:"is_24_hours"`
	TotalPorts      int             `db:"total_ports"`
	AvailablePorts  int             `db:"available_ports"`
	CreatedBy       sql.NullString  `db:"created_by"`
	UpdatedBy       sql.NullString  `db:"updated_by"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	Distance        sql.NullFloat64 `db:"distance"`
}

func newStationRow(s *domain.Station) (*stationRow, error) {
	row := &stationRow{
		ID:              s.ID,
		Name:            s.Name,
		Latitude:        s.Location.Latitude,
		Longitude:       s.Location.Longitude,
		Address:         s.Location.Address,
		City:            s.Location.City,
		State:           s.Location.State,
		ZipCode:         s.Location.ZipCode,
		Country:         s.Location.Country,
		Status:          string(s.Status),
		PowerOutput:     s.PowerOutput,
		ConnectorType:   string(s.ConnectorType),
		NetworkProvider: s.NetworkProvider,
		PricePerKwh:     nullFloat(s.Pricing.PerKwh),
		PricePerMinute:  nullFloat(s.Pricing.PerMinute),
		Currency:        s.Pricing.Currency,
		Amenities:       make(pq.StringArray, 0, len(s.Amenities)),
		Is24Hours:       s.Is24Hours,
		TotalPorts:      s.TotalPorts,
		AvailablePorts:  s.AvailablePorts,
		CreatedBy:       nullString(s.CreatedBy),
		UpdatedBy:       nullString(s.UpdatedBy),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, a := range s.Amenities {
		row.Amenities = append(row.Amenities, string(a))
	}
	if s.OperatingHours != nil {
		raw, err := json.Marshal(s.OperatingHours)
		if err != nil {
			return nil, fmt.Errorf("marshal operating hours: %w", err)
		}
		row.OperatingHours = raw
	}
	return row, nil
}

func (r *stationRow) toDomain() (*domain.Station, error) {
	s := &domain.Station{
		ID:   r.ID,
		Name: r.Name,
		Location: domain.StationLocation{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Address:   r.Address,
			City:      r.City,
			State:     r.State,
			ZipCode:   r.ZipCode,
			Country:   r.Country,
		},
		Status:          domain.StationStatus(r.Status),
		PowerOutput:     r.PowerOutput,
		ConnectorType:   domain.ConnectorType(r.ConnectorType),
		NetworkProvider: r.NetworkProvider,
		Pricing: domain.Pricing{
			PerKwh:    floatPtr(r.PricePerKwh),
			PerMinute: floatPtr(r.PricePerMinute),
			Currency:  r.Currency,
		},
		Amenities:      make([]domain.Amenity, 0, len(r.Amenities)),
		Is24Hours:      r.Is24Hours,
		TotalPorts:     r.TotalPorts,
		AvailablePorts: r.AvailablePorts,
		CreatedBy:      r.CreatedBy.String,
		UpdatedBy:      r.UpdatedBy.String,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
		Distance:       floatPtr(r.Distance),
	}
	for _, a := range r.Amenities {
		s.Amenities = append(s.Amenities, domain.Amenity(a))
	}
	if len(r.OperatingHours) > 0 {
		var oh domain.OperatingHours
		if err := json.Unmarshal(r.OperatingHours, &oh); err != nil {
			return nil, fmt.Errorf("unmarshal operating hours: %w", err)
		}
		s.OperatingHours = &oh
	}
	return s, nil
}

type stationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStationRepository создает репозиторий станций на PostgreSQL + PostGIS
func NewStationRepository(db *DB) repository.StationRepository {
	return &stationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *stationRepository) Create(ctx context.Context, station *domain.Station) error {
	row, err := newStationRow(station)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO stations (
			id, name, latitude, longitude, geom, address, city, state, zip_code, country,
			status, power_output, connector_type, network_provider,
			price_per_kwh, price_per_minute, currency, amenities, operating_hours, is_24_hours,
			total_ports, available_ports, created_by, updated_by, created_at, updated_at
		) VALUES (
			:id, :name, :latitude, :longitude,
			ST_SetSRID(ST_MakePoint(:longitude, :latitude), 4326)::geography,
			:address, :city, :state, :zip_code, :country,
			:status, :power_output, :connector_type, :network_provider,
			:price_per_kwh, :price_per_minute, :currency, :amenities, :operating_hours, :is_24_hours,
			:total_ports, :available_ports, :created_by, :updated_by, :created_at, :updated_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return r.mapWriteError("create", station.ID, err)
	}
	return nil
}

func (r *stationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`

	var row stationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrStationNotFound
		}
		r.logger.Error("Failed to get station", zap.String("station_id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return row.toDomain()
}

func (r *stationRepository) Update(ctx context.Context, station *domain.Station) error {
	row, err := newStationRow(station)
	if err != nil {
		return err
	}

	query := `
		UPDATE stations SET
			name = :name,
			latitude = :latitude,
			longitude = :longitude,
			geom = ST_SetSRID(ST_MakePoint(:longitude, :latitude), 4326)::geography,
			address = :address,
			city = :city,
			state = :state,
			zip_code = :zip_code,
			country = :country,
			status = :status,
			power_output = :power_output,
			connector_type = :connector_type,
			network_provider = :network_provider,
			price_per_kwh = :price_per_kwh,
			price_per_minute = :price_per_minute,
			currency = :currency,
			amenities = :amenities,
			operating_hours = :operating_hours,
			is_24_hours = :is_24_hours,
			total_ports = :total_ports,
			available_ports = :available_ports,
			updated_by = :updated_by,
			updated_at = :updated_at
		WHERE id = :id
	`

	res, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return r.mapWriteError("update", station.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrStationNotFound
	}
	return nil
}

func (r *stationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete station", zap.String("station_id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrStationNotFound
	}
	return nil
}

func (r *stationRepository) Find(ctx context.Context, filter domain.StationFilter, opts domain.FindOptions) ([]*domain.Station, error) {
	w := &whereBuilder{}
	w.applyFilter(filter)

	query := `SELECT ` + stationColumns + ` FROM stations` + w.clause() + orderAndWindow(w, opts)
	return r.selectStations(ctx, query, w.args)
}

func (r *stationRepository) Count(ctx context.Context, filter domain.StationFilter) (int64, error) {
	w := &whereBuilder{}
	w.applyFilter(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stations`+w.clause(), w.args...); err != nil {
		r.logger.Error("Failed to count stations", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return total, nil
}

func (r *stationRepository) FindNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter, opts domain.FindOptions) ([]*domain.Station, error) {
	w := nearWhere(filter, near)

	// use_spheroid=false: distances on the sphere, consistent with haversine
	query := fmt.Sprintf(`
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), %d)::geography AS geom
		)
		SELECT * FROM (
			SELECT %s,
				ST_Distance(stations.geom, point.geom, false) AS distance
			FROM stations, point
			%s
		) AS nearby
	`, SRID4326, stationColumns, w.clause()) + orderAndWindow(w, opts)

	return r.selectStations(ctx, query, w.args)
}

func (r *stationRepository) CountNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter) (int64, error) {
	w := nearWhere(filter, near)

	query := fmt.Sprintf(`
		WITH point AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), %d)::geography AS geom
		)
		SELECT COUNT(*) FROM stations, point
		%s
	`, SRID4326, w.clause())

	var total int64
	if err := r.db.GetContext(ctx, &total, query, w.args...); err != nil {
		r.logger.Error("Failed to count stations near point", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return total, nil
}

// nearWhere binds lon=$1, lat=$2, radius=$3 then the attribute filters.
func nearWhere(filter domain.StationFilter, near domain.GeoFilter) *whereBuilder {
	w := &whereBuilder{}
	w.bind(near.Lon)
	w.bind(near.Lat)
	w.bind(near.RadiusMeters())
	w.raw("ST_DWithin(stations.geom, point.geom, $3, false)")
	w.applyFilter(filter)
	return w
}

func (r *stationRepository) selectStations(ctx context.Context, query string, args []interface{}) ([]*domain.Station, error) {
	var rows []stationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to select stations", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	stations := make([]*domain.Station, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toDomain()
		if err != nil {
			r.logger.Error("Failed to decode station", zap.String("station_id", rows[i].ID), zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		stations = append(stations, s)
	}
	return stations, nil
}

func (r *stationRepository) mapWriteError(op, id string, err error) error {
	if isPgError(err, pgCheckViolation) {
		return errors.Field("availablePorts", "Available ports cannot exceed total ports")
	}
	r.logger.Error("Failed to write station",
		zap.String("op", op),
		zap.String("station_id", id),
		zap.Error(err))
	return errors.ErrDatabaseError
}
