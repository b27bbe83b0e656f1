//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type stationChangedEvent struct {
	StationID  string    `json:"station_id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	stationID := flag.String("station", uuid.NewString(), "station id to put into the event")
	action := flag.String("action", "station.updated", "event action")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	data, err := json.Marshal(stationChangedEvent{
		StationID:  *stationID,
		Action:     *action,
		ActorID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим, который читает cmd/worker
	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:stations:changed",
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published %s for station %s, message id %s\n", *action, *stationID, id)
}
