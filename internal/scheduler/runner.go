package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/logger"
	"quiz-master/internal/service"

	"go.uber.org/zap"
)

// JobFunc is one schedulable job body. The returned string is the
// human-readable result recorded in the status ledger.
type JobFunc func(ctx context.Context) (string, error)

// Registry maps job names to their bodies.
type Registry map[string]JobFunc

// NewRegistry binds every known job name to the task service.
func NewRegistry(tasks service.TaskService) Registry {
	return Registry{
		service.JobDailyReminders:       tasks.SendDailyReminders,
		service.JobMonthlyReport:        tasks.GenerateMonthlyReport,
		service.JobBackupDatabase:       tasks.BackupDatabase,
		service.JobCleanExpiredSessions: tasks.CleanExpiredSessions,
		service.JobUpdateLeaderboard:    tasks.UpdateLeaderboard,
		service.JobExportAnalytics:      tasks.ExportAnalytics,
	}
}

// JobNames lists the registered jobs in a stable order.
func (r Registry) JobNames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runner executes one job run end to end: it records the pending state,
// invokes the body, recovers panics and records the terminal state. A run
// never propagates an error to its caller; failures live in the ledger.
type Runner struct {
	registry Registry
	statuses *StatusStore
}

// NewRunner creates a new Runner.
func NewRunner(registry Registry, statuses *StatusStore) *Runner {
	return &Runner{registry: registry, statuses: statuses}
}

// Known reports whether a job name is registered.
func (r *Runner) Known(jobName string) bool {
	_, ok := r.registry[jobName]
	return ok
}

// Run executes the named job under the given task handle.
func (r *Runner) Run(ctx context.Context, jobName, taskID string) {
	job, ok := r.registry[jobName]
	if !ok {
		logger.Get().Error("unknown job dispatched", zap.String("jobName", jobName), zap.String("taskID", taskID))
		return
	}

	status := TaskStatus{
		TaskID:    taskID,
		JobName:   jobName,
		State:     StatePending,
		StartedAt: time.Now(),
	}
	if err := r.statuses.Put(ctx, status); err != nil {
		logger.Get().Warn("failed to record pending task status", zap.Error(err), zap.String("taskID", taskID))
	}

	// The job body reads the handle back to name its artifacts.
	result, err := r.invoke(domain.WithTaskHandle(ctx, taskID), job)

	finished := time.Now()
	status.FinishedAt = &finished
	if err != nil {
		status.State = StateFailure
		status.Error = domain.NewTaskError(jobName, err).Error()
		logger.Get().Error("job failed",
			zap.String("jobName", jobName),
			zap.String("taskID", taskID),
			zap.Error(err))
	} else {
		status.State = StateSuccess
		status.Result = result
		logger.Get().Info("job finished",
			zap.String("jobName", jobName),
			zap.String("taskID", taskID),
			zap.String("result", result))
	}
	if err := r.statuses.Put(ctx, status); err != nil {
		logger.Get().Warn("failed to record final task status", zap.Error(err), zap.String("taskID", taskID))
	}
}

// invoke runs the job body, converting a panic into an error so one bad job
// never takes the scheduler down.
func (r *Runner) invoke(ctx context.Context, job JobFunc) (result string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
	}()
	return job(ctx)
}
