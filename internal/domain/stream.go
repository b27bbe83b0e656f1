package domain

import "time"

// Stream names
const (
	StreamStationsChanged = "stream:stations:changed"
)

// StationAction - тип изменения станции
type StationAction string

const (
	StationCreated             StationAction = "station.created"
	StationUpdated             StationAction = "station.updated"
	StationDeleted             StationAction = "station.deleted"
	StationAvailabilityUpdated StationAction = "station.availability_updated"
)

// StationChangedEvent - событие об изменении станции
type StationChangedEvent struct {
	StationID  string        `json:"station_id"`
	Action     StationAction `json:"action"`
	ActorID    string        `json:"actor_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
