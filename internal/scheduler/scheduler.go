package scheduler

import (
	"context"
	"fmt"

	"quiz-master/internal/logger"
	"quiz-master/internal/service"
	"quiz-master/internal/util"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// The fixed schedule table. Cron expressions are in server local time.
var schedules = []struct {
	JobName string
	Spec    string
}{
	{service.JobDailyReminders, "0 9 * * *"},
	{service.JobMonthlyReport, "0 0 1 * *"},
	{service.JobBackupDatabase, "0 2 * * 0"},
	{service.JobCleanExpiredSessions, "@every 12h"},
	{service.JobUpdateLeaderboard, "@every 1h"},
	{service.JobExportAnalytics, "43 18 * * 0"},
}

// Scheduler fires the fixed job table on its cron schedules. Every firing
// gets its own task handle so overlapping runs never clobber each other's
// status records.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
}

// NewScheduler wires the schedule table into a cron instance.
func NewScheduler(runner *Runner) (*Scheduler, error) {
	c := cron.New()
	for _, entry := range schedules {
		jobName := entry.JobName
		if !runner.Known(jobName) {
			return nil, fmt.Errorf("schedule references unknown job %q", jobName)
		}
		if _, err := c.AddFunc(entry.Spec, func() {
			runner.Run(context.Background(), jobName, util.NewULID())
		}); err != nil {
			return nil, fmt.Errorf("failed to schedule job %q: %w", jobName, err)
		}
	}
	return &Scheduler{cron: c, runner: runner}, nil
}

// Start begins firing scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Info("scheduler started", zap.Int("jobs", len(schedules)))
}

// Stop halts scheduling and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("scheduler stopped")
}
