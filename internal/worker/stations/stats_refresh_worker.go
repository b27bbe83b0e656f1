package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/domain/repository"
	"github.com/ev-station-service/internal/worker"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 50
	errorBackoff     = time.Second
)

// StatsRefresher пересчитывает и кеширует статистику
type StatsRefresher interface {
	RefreshStatistics(ctx context.Context) (*domain.Statistics, error)
}

// StatsRefreshWorker читает события изменения станций и обновляет кеш статистики.
// One refresh covers the whole batch.
type StatsRefreshWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	stats        StatsRefresher
	stream       string
	consumerName string
	batchSize    int
	// retryPending - сначала перечитать свой PEL, потом брать новые сообщения
	retryPending bool
}

// NewStatsRefreshWorker создает новый StatsRefreshWorker
func NewStatsRefreshWorker(
	streamRepo repository.StreamRepository,
	stats StatsRefresher,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *StatsRefreshWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &StatsRefreshWorker{
		BaseWorker:   worker.NewBaseWorker("station-stats-refresh", consumerGroup, logger),
		streamRepo:   streamRepo,
		stats:        stats,
		stream:       domain.StreamStationsChanged,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
	}
}

var _ worker.StreamConsumer = (*StatsRefreshWorker)(nil)

// Stream возвращает имя читаемого стрима
func (w *StatsRefreshWorker) Stream() string {
	return w.stream
}

// Start запускает воркер и блокируется до Stop или отмены ctx
func (w *StatsRefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting StatsRefreshWorker",
		zap.String("stream", w.stream),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.stream, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// после рестарта в PEL могли остаться сообщения прошлого запуска
	w.retryPending = true

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return nil
		default:
		}

		if _, err := w.ProcessBatch(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Failed to process batch", zap.Error(err))
			if !w.Pause(ctx, errorBackoff) {
				return nil
			}
		}
	}
}

// ProcessBatch читает один batch, обновляет статистику и подтверждает сообщения.
// Неподтверждённые после ошибки сообщения перечитываются следующим вызовом.
// Возвращает число прочитанных сообщений.
func (w *StatsRefreshWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.nextBatch(ctx)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	valid := make([]string, 0, len(messages))
	var malformed []string
	for _, msg := range messages {
		if _, err := parseEvent(msg); err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			malformed = append(malformed, msg.ID)
			continue
		}
		valid = append(valid, msg.ID)
	}

	// битые сообщения подтверждаем сразу, чтобы не застревали в PEL
	if len(malformed) > 0 {
		if err := w.streamRepo.AckMessages(ctx, w.stream, w.ConsumerGroup(), malformed); err != nil {
			logger.Warn("Failed to ack malformed messages", zap.Error(err))
		}
	}

	if len(valid) == 0 {
		return len(messages), nil
	}

	if _, err := w.stats.RefreshStatistics(ctx); err != nil {
		// не подтверждаем: сообщения остаются в PEL и будут перечитаны
		w.retryPending = true
		return len(messages), fmt.Errorf("refresh statistics: %w", err)
	}

	if err := w.streamRepo.AckMessages(ctx, w.stream, w.ConsumerGroup(), valid); err != nil {
		w.retryPending = true
		return len(messages), fmt.Errorf("ack messages: %w", err)
	}

	logger.Info("Batch processed",
		zap.Int("message_count", len(messages)),
		zap.Int("malformed", len(malformed)))
	return len(messages), nil
}

// nextBatch отдаёт PEL consumer, пока он не пуст, затем новые сообщения группы
func (w *StatsRefreshWorker) nextBatch(ctx context.Context) ([]domain.StreamMessage, error) {
	if w.retryPending {
		pending, err := w.streamRepo.ReadPending(ctx, w.stream, w.ConsumerGroup(), w.consumerName, w.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read pending messages: %w", err)
		}
		if len(pending) > 0 {
			w.Logger().Info("Retrying pending messages", zap.Int("message_count", len(pending)))
			return pending, nil
		}
		w.retryPending = false
	}

	messages, err := w.streamRepo.ConsumeBatch(ctx, w.stream, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

func parseEvent(msg domain.StreamMessage) (*domain.StationChangedEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("empty payload")
	}

	var event domain.StationChangedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.StationID == "" || event.Action == "" {
		return nil, fmt.Errorf("event without station_id or action")
	}
	return &event, nil
}
