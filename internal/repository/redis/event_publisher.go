package redis

import (
	"context"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
)

type eventPublisher struct {
	streams repository.StreamRepository
	stream  string
}

// NewEventPublisher публикует события изменения станций в domain.StreamStationsChanged
func NewEventPublisher(streams repository.StreamRepository) repository.EventPublisher {
	return &eventPublisher{
		streams: streams,
		stream:  domain.StreamStationsChanged,
	}
}

func (p *eventPublisher) PublishStationChanged(ctx context.Context, event domain.StationChangedEvent) error {
	return p.streams.PublishToStream(ctx, p.stream, event)
}

type nopEventPublisher struct{}

// NewNopEventPublisher используется, когда Redis отключен
func NewNopEventPublisher() repository.EventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) PublishStationChanged(context.Context, domain.StationChangedEvent) error {
	return nil
}
