package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ev-station-service/internal/worker"
)

// blockingWorker ждёт Stop; ignoreStop игнорирует его
type blockingWorker struct {
	*worker.BaseWorker
	ignoreStop bool
}

func (w *blockingWorker) Start(ctx context.Context) error {
	if w.ignoreStop {
		time.Sleep(time.Second)
		return nil
	}
	<-w.StopChan()
	return nil
}

func TestWorkerManager_StartWithoutWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StopWaitsForWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	w := &blockingWorker{BaseWorker: worker.NewBaseWorker("blocking", "g", zap.NewNop())}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop())
	assert.True(t, w.IsStopped())

	// повторный Stop безопасен
	assert.NoError(t, w.Stop())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	m.SetShutdownTimeout(50 * time.Millisecond)
	m.Register(&blockingWorker{BaseWorker: worker.NewBaseWorker("stuck", "g", zap.NewNop()), ignoreStop: true})

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Stop())
}

func TestBaseWorker_Pause(t *testing.T) {
	w := worker.NewBaseWorker("pause", "g", zap.NewNop())
	assert.True(t, w.Pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, w.Pause(ctx, time.Minute))

	require.NoError(t, w.Stop())
	assert.False(t, w.Pause(context.Background(), time.Minute))
}
