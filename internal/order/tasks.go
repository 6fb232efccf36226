package order

import (
	"context"

	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"go.uber.org/zap"
)

// Job is a detached unit of work executed after the primary write committed.
// Jobs run on the application context, not the request context, so an early
// client disconnect cannot cancel them.
type Job func(ctx context.Context)

// Dispatcher accepts jobs without blocking the caller.
type Dispatcher interface {
	Dispatch(job Job) bool
}

// Tasks is a bounded worker pool. When the queue is full the job is dropped
// and logged; every job here is safe to lose (stats heal on the next sync,
// notifications are best-effort).
type Tasks struct {
	jobs chan Job
}

func NewTasks(depth int) *Tasks {
	if depth <= 0 {
		depth = 64
	}
	return &Tasks{jobs: make(chan Job, depth)}
}

func (t *Tasks) Dispatch(job Job) bool {
	select {
	case t.jobs <- job:
		return true
	default:
		logger.Log.Warn("task queue full, dropping job")
		return false
	}
}

// Run starts workerCount workers and blocks until ctx is cancelled.
func (t *Tasks) Run(ctx context.Context, workerCount int) {
	if workerCount <= 0 {
		workerCount = 4
	}
	for i := 1; i <= workerCount; i++ {
		go workerLoop(ctx, i, t.jobs)
	}
	<-ctx.Done()
	logger.Log.Info("task dispatcher stopping")
}

func workerLoop(ctx context.Context, id int, jobs <-chan Job) {
	logger.Log.Debug("task worker started", zap.Int("worker", id))
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("task worker stopped", zap.Int("worker", id))
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			job(ctx)
		}
	}
}
