package worker

import (
	"context"
)

// Worker - фоновый процесс под управлением WorkerManager.
// Start blocks until ctx is done or Stop is called.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// StreamConsumer - воркер, читающий Redis Stream через consumer group
type StreamConsumer interface {
	Worker
	Stream() string
	ConsumerGroup() string
}
