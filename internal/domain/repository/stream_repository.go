package repository

import (
	"context"

	"github.com/ev-station-service/internal/domain"
)

// StreamRepository - интерфейс для работы с Redis Streams
type StreamRepository interface {
	// CreateConsumerGroup создаёт consumer group
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch читает до maxCount новых сообщений без блокировки надолго
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// ReadPending повторно читает выданные consumer, но не подтверждённые сообщения
	ReadPending(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// AckMessages подтверждает обработку сообщений
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// EventPublisher публикует события изменения станций
type EventPublisher interface {
	PublishStationChanged(ctx context.Context, event domain.StationChangedEvent) error
}
