package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultBlock - сколько XREADGROUP ждёт новых сообщений
const DefaultBlock = 5 * time.Second

type streamRepository struct {
	client *redis.Client
	block  time.Duration
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository.
// block <= 0 заменяется на DefaultBlock.
func NewStreamRepository(client *redis.Client, block time.Duration, logger *zap.Logger) repository.StreamRepository {
	if block <= 0 {
		block = DefaultBlock
	}
	return &streamRepository{
		client: client,
		block:  block,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт consumer group для стрима
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	// MKSTREAM создаст стрим, если его ещё нет; читаем только новые сообщения
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created successfully",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeBatch читает до maxCount непрочитанных сообщений группы.
// Пустой результат без ошибки означает, что за время block сообщений не было.
func (r *streamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    int64(maxCount),
		Block:    r.block,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Error("Failed to read from stream",
			zap.String("stream", stream),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	return r.toMessages(result), nil
}

// ReadPending возвращает до maxCount сообщений, уже выданных consumer, но не подтверждённых.
// Не блокируется: пустой результат означает, что PEL этого consumer пуст.
func (r *streamRepository) ReadPending(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, "0"},
		Count:    int64(maxCount),
		Block:    -1, // без BLOCK
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Error("Failed to read pending messages",
			zap.String("stream", stream),
			zap.String("consumer", consumer),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read pending messages: %w", err)
	}

	return r.toMessages(result), nil
}

func (r *streamRepository) toMessages(result []redis.XStream) []domain.StreamMessage {
	var messages []domain.StreamMessage
	for _, s := range result {
		for _, msg := range s.Messages {
			// у удалённой из стрима записи поля пустые
			data, _ := msg.Values["data"].(string)
			if data == "" {
				r.logger.Warn("Message does not contain 'data' field",
					zap.String("message_id", msg.ID))
			}
			messages = append(messages, domain.StreamMessage{ID: msg.ID, Data: data})
		}
	}
	return messages
}

// AckMessages подтверждает обработку сообщений
func (r *streamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	err := r.client.XAck(ctx, stream, group, messageIDs...).Err()
	if err != nil {
		r.logger.Error("Failed to acknowledge messages",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Int("count", len(messageIDs)),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge messages: %w", err)
	}

	r.logger.Debug("Messages acknowledged", zap.Int("count", len(messageIDs)))
	return nil
}

// PublishToStream публикует сообщение в стрим
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", result))
	return nil
}
