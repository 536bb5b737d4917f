package scheduler

import (
	"context"
	"fmt"
	"sync"

	"quiz-master/internal/domain"
	"quiz-master/internal/logger"
	"quiz-master/internal/util"

	"go.uber.org/zap"
)

const defaultQueueSize = 64

type dispatch struct {
	jobName string
	taskID  string
}

// Dispatcher serves manual job triggers. Triggered jobs queue onto a buffered
// channel consumed by a fixed pool of workers; callers poll the returned
// handle for the outcome.
type Dispatcher struct {
	runner  *Runner
	queue   chan dispatch
	workers int

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher with the given worker count.
func NewDispatcher(runner *Runner, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		runner:  runner,
		queue:   make(chan dispatch, defaultQueueSize),
		workers: workers,
	}
}

// Start launches the worker pool. Workers drain the queue until Stop closes it.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for item := range d.queue {
				d.runner.Run(ctx, item.jobName, item.taskID)
			}
		}()
	}
	logger.Get().Info("task dispatcher started", zap.Int("workers", d.workers))
}

// Trigger enqueues a job run and returns its task handle. Unknown job names
// are rejected before anything is queued.
func (d *Dispatcher) Trigger(ctx context.Context, jobName string) (string, error) {
	if !d.runner.Known(jobName) {
		return "", domain.NewValidationError(fmt.Sprintf("unknown job %q", jobName))
	}
	taskID := util.NewULID()

	// Record the pending state before queueing so a poll between trigger
	// and pickup sees the handle.
	if err := d.runner.statuses.Put(ctx, TaskStatus{
		TaskID:  taskID,
		JobName: jobName,
		State:   StatePending,
	}); err != nil {
		return "", domain.NewInternalError(err)
	}

	select {
	case d.queue <- dispatch{jobName: jobName, taskID: taskID}:
		return taskID, nil
	default:
		// The run will never happen; drop the pending record so the
		// handle does not keep polling as pending.
		if err := d.runner.statuses.Delete(ctx, taskID); err != nil {
			logger.Get().Warn("failed to drop status of rejected task",
				zap.Error(err), zap.String("taskID", taskID))
		}
		return "", domain.NewTaskError(jobName, fmt.Errorf("task queue is full"))
	}
}

// Poll returns the status record for a task handle.
func (d *Dispatcher) Poll(ctx context.Context, taskID string) (*TaskStatus, error) {
	return d.runner.statuses.Get(ctx, taskID)
}

// Stop closes the queue and waits for workers to drain it.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
	logger.Get().Info("task dispatcher stopped")
}
