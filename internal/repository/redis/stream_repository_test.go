package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-station-service/internal/domain"
	redisRepo "github.com/ev-station-service/internal/repository/redis"
)

const testStream = "test:stream:stations:changed"

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testStream)
	t.Cleanup(func() {
		client.Del(context.Background(), testStream)
		client.Close()
	})

	return client
}

func newEvent(action domain.StationAction) domain.StationChangedEvent {
	return domain.StationChangedEvent{
		StationID:  uuid.NewString(),
		Action:     action,
		ActorID:    uuid.NewString(),
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, "test-group"))

	groups, err := client.XInfoGroups(ctx, testStream).Result()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "test-group", groups[0].Name)

	// BUSYGROUP is not an error
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testStream, "test-group"))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	event := newEvent(domain.StationCreated)
	require.NoError(t, redisRepo.NewEventPublisher(repo).PublishStationChanged(ctx, event))

	// the publisher writes to the production stream name
	defer client.Del(ctx, domain.StreamStationsChanged)

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{domain.StreamStationsChanged, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	data, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.StationChangedEvent
	require.NoError(t, json.Unmarshal([]byte(data), &received))
	assert.Equal(t, event.StationID, received.StationID)
	assert.Equal(t, domain.StationCreated, received.Action)
	assert.True(t, event.OccurredAt.Equal(received.OccurredAt))
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 200*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	group, consumer := "test-batch-group", "test-consumer"
	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, group))

	for _, action := range []domain.StationAction{domain.StationCreated, domain.StationUpdated, domain.StationDeleted} {
		require.NoError(t, repo.PublishToStream(ctx, testStream, newEvent(action)))
	}

	batch, err := repo.ConsumeBatch(ctx, testStream, group, consumer, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	pending, err := client.XPending(ctx, testStream, group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending.Count)

	ids := []string{batch[0].ID, batch[1].ID}
	require.NoError(t, repo.AckMessages(ctx, testStream, group, ids))

	pending, err = client.XPending(ctx, testStream, group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)

	rest, err := repo.ConsumeBatch(ctx, testStream, group, consumer, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	var last domain.StationChangedEvent
	require.NoError(t, json.Unmarshal([]byte(rest[0].Data), &last))
	assert.Equal(t, domain.StationDeleted, last.Action)
}

func TestStreamRepository_ReadPending(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	group, consumer := "test-pending-group", "test-consumer"
	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, group))
	require.NoError(t, repo.PublishToStream(ctx, testStream, newEvent(domain.StationCreated)))

	batch, err := repo.ConsumeBatch(ctx, testStream, group, consumer, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	// not acked: ">" no longer returns it, the pending read does
	again, err := repo.ConsumeBatch(ctx, testStream, group, consumer, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	pending, err := repo.ReadPending(ctx, testStream, group, consumer, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, batch[0].ID, pending[0].ID)
	assert.Equal(t, batch[0].Data, pending[0].Data)

	other, err := repo.ReadPending(ctx, testStream, group, "other-consumer", 10)
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, repo.AckMessages(ctx, testStream, group, []string{batch[0].ID}))
	pending, err = repo.ReadPending(ctx, testStream, group, consumer, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStreamRepository_ConsumeBatch_Empty(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, "test-empty-group"))

	batch, err := repo.ConsumeBatch(ctx, testStream, "test-empty-group", "test-consumer", 10)
	require.NoError(t, err)
	assert.Empty(t, batch)

	assert.NoError(t, repo.AckMessages(ctx, testStream, "test-empty-group", nil))
}

func TestStreamRepository_ConsumeBatch_ContextCancelled(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 5*time.Second, zap.NewNop())

	require.NoError(t, repo.CreateConsumerGroup(context.Background(), testStream, "test-cancel-group"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := repo.ConsumeBatch(ctx, testStream, "test-cancel-group", "test-consumer", 10)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestNopEventPublisher(t *testing.T) {
	assert.NoError(t, redisRepo.NewNopEventPublisher().PublishStationChanged(context.Background(), newEvent(domain.StationUpdated)))
}
