package mongo

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// geoPoint - GeoJSON Point, координаты [lon, lat]
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// stationDocument - документ коллекции stations
type stationDocument struct {
	ID              string                 `bson:"_id"`
	Name            string                 `bson:"name"`
	Location        domain.StationLocation `bson:"location"`
	Geo             geoPoint               `bson:"geo"`
	Status          string                 `bson:"status"`
	PowerOutput     float64                `bson:"powerOutput"`
	ConnectorType   string                 `bson:"connectorType"`
	NetworkProvider string                 `bson:"networkProvider,omitempty"`
	Pricing         domain.Pricing         `bson:"pricing"`
	Amenities       []string               `bson:"amenities"`
	OperatingHours  *domain.OperatingHours `bson:"operatingHours,omitempty"`
	Is24Hours       bool                   `bson:"is24Hours"`
	TotalPorts      int                    `bson:"totalPorts"`
	AvailablePorts  int                    `bson:"availablePorts"`
	CreatedBy       string                 `bson:"createdBy,omitempty"`
	UpdatedBy       string                 `bson:"updatedBy,omitempty"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
	Distance        *float64               `bson:"distance,omitempty"`
}

func newStationDocument(s *domain.Station) *stationDocument {
	doc := &stationDocument{
		ID:              s.ID,
		Name:            s.Name,
		Location:        s.Location,
		Geo:             geoPoint{Type: "Point", Coordinates: []float64{s.Location.Longitude, s.Location.Latitude}},
		Status:          string(s.Status),
		PowerOutput:     s.PowerOutput,
		ConnectorType:   string(s.ConnectorType),
		NetworkProvider: s.NetworkProvider,
		Pricing:         s.Pricing,
		Amenities:       make([]string, 0, len(s.Amenities)),
		OperatingHours:  s.OperatingHours,
		Is24Hours:       s.Is24Hours,
		TotalPorts:      s.TotalPorts,
		AvailablePorts:  s.AvailablePorts,
		CreatedBy:       s.CreatedBy,
		UpdatedBy:       s.UpdatedBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, a := range s.Amenities {
		doc.Amenities = append(doc.Amenities, string(a))
	}
	return doc
}

func (d *stationDocument) toDomain() *domain.Station {
	s := &domain.Station{
		ID:              d.ID,
		Name:            d.Name,
		Location:        d.Location,
		Status:          domain.StationStatus(d.Status),
		PowerOutput:     d.PowerOutput,
		ConnectorType:   domain.ConnectorType(d.ConnectorType),
		NetworkProvider: d.NetworkProvider,
		Pricing:         d.Pricing,
		Amenities:       make([]domain.Amenity, 0, len(d.Amenities)),
		OperatingHours:  d.OperatingHours,
		Is24Hours:       d.Is24Hours,
		TotalPorts:      d.TotalPorts,
		AvailablePorts:  d.AvailablePorts,
		CreatedBy:       d.CreatedBy,
		UpdatedBy:       d.UpdatedBy,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
		Distance:        d.Distance,
	}
	for _, a := range d.Amenities {
		s.Amenities = append(s.Amenities, domain.Amenity(a))
	}
	return s
}

// sortKeys - соответствие полей сортировки ключам документа
var sortKeys = map[domain.SortField]string{
	domain.SortByCreatedAt:      "createdAt",
	domain.SortByUpdatedAt:      "updatedAt",
	domain.SortByName:           "name",
	domain.SortByPowerOutput:    "powerOutput",
	domain.SortByStatus:         "status",
	domain.SortByConnectorType:  "connectorType",
	domain.SortByTotalPorts:     "totalPorts",
	domain.SortByAvailablePorts: "availablePorts",
	domain.SortByDistance:       "distance",
}

type stationRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewStationRepository создает репозиторий станций на MongoDB
func NewStationRepository(db *DB) repository.StationRepository {
	return &stationRepository{
		coll:   db.db.Collection(StationsCollection),
		logger: db.logger,
	}
}

func (r *stationRepository) Create(ctx context.Context, station *domain.Station) error {
	if _, err := r.coll.InsertOne(ctx, newStationDocument(station)); err != nil {
		r.logger.Error("Failed to insert station", zap.String("station_id", station.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *stationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	var doc stationDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.ErrStationNotFound
		}
		r.logger.Error("Failed to get station", zap.String("station_id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return doc.toDomain(), nil
}

func (r *stationRepository) Update(ctx context.Context, station *domain.Station) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": station.ID}, newStationDocument(station))
	if err != nil {
		r.logger.Error("Failed to update station", zap.String("station_id", station.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if res.MatchedCount == 0 {
		return errors.ErrStationNotFound
	}
	return nil
}

func (r *stationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete station", zap.String("station_id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if res.DeletedCount == 0 {
		return errors.ErrStationNotFound
	}
	return nil
}

func (r *stationRepository) Find(ctx context.Context, filter domain.StationFilter, opts domain.FindOptions) ([]*domain.Station, error) {
	findOpts := options.Find().SetSort(sortSpec(opts))
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := r.coll.Find(ctx, buildFilter(filter), findOpts)
	if err != nil {
		r.logger.Error("Failed to find stations", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return r.decodeAll(ctx, cursor)
}

func (r *stationRepository) Count(ctx context.Context, filter domain.StationFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		r.logger.Error("Failed to count stations", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return n, nil
}

func (r *stationRepository) FindNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter, opts domain.FindOptions) ([]*domain.Station, error) {
	pipeline := mongo.Pipeline{
		geoNearStage(filter, near),
		{{Key: "$sort", Value: sortSpec(opts)}},
	}
	if opts.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(opts.Skip)}})
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(opts.Limit)}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to run geo query", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return r.decodeAll(ctx, cursor)
}

func (r *stationRepository) CountNear(ctx context.Context, filter domain.StationFilter, near domain.GeoFilter) (int64, error) {
	pipeline := mongo.Pipeline{
		geoNearStage(filter, near),
		{{Key: "$count", Value: "total"}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to count geo query", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		r.logger.Error("Failed to decode geo count", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (r *stationRepository) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Station, error) {
	defer cursor.Close(ctx)

	var docs []stationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode stations", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	stations := make([]*domain.Station, 0, len(docs))
	for i := range docs {
		stations = append(stations, docs[i].toDomain())
	}
	return stations, nil
}

// geoNearStage - $geoNear на сфере; distanceField в метрах.
// The attribute filter goes into query so the 2dsphere index does the prefilter.
func geoNearStage(filter domain.StationFilter, near domain.GeoFilter) bson.D {
	return bson.D{{Key: "$geoNear", Value: bson.D{
		{Key: "near", Value: bson.D{
			{Key: "type", Value: "Point"},
			{Key: "coordinates", Value: bson.A{near.Lon, near.Lat}},
		}},
		{Key: "key", Value: "geo"},
		{Key: "distanceField", Value: "distance"},
		{Key: "maxDistance", Value: near.RadiusMeters()},
		{Key: "spherical", Value: true},
		{Key: "query", Value: buildFilter(filter)},
	}}}
}

func buildFilter(f domain.StationFilter) bson.M {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.ConnectorType != nil {
		filter["connectorType"] = string(*f.ConnectorType)
	}
	if f.MinPowerOutput != nil || f.MaxPowerOutput != nil {
		rng := bson.M{}
		if f.MinPowerOutput != nil {
			rng["$gte"] = *f.MinPowerOutput
		}
		if f.MaxPowerOutput != nil {
			rng["$lte"] = *f.MaxPowerOutput
		}
		filter["powerOutput"] = rng
	}
	return filter
}

// sortSpec appends createdAt and _id in the same direction as the primary key.
func sortSpec(opts domain.FindOptions) bson.D {
	key, ok := sortKeys[opts.SortBy]
	if !ok {
		key = "createdAt"
	}
	dir := 1
	if opts.Descending() {
		dir = -1
	}

	spec := bson.D{{Key: key, Value: dir}}
	if key != "createdAt" {
		spec = append(spec, bson.E{Key: "createdAt", Value: dir})
	}
	return append(spec, bson.E{Key: "_id", Value: dir})
}
