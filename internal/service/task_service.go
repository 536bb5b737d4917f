package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/config"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/notification"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Canonical job names. The scheduler and the manual trigger endpoint both
// resolve jobs by these.
const (
	JobDailyReminders       = "send_daily_reminders"
	JobMonthlyReport        = "generate_monthly_report"
	JobBackupDatabase       = "backup_database"
	JobCleanExpiredSessions = "clean_expired_sessions"
	JobUpdateLeaderboard    = "update_leaderboard"
	JobExportAnalytics      = "export_analytics"
)

// artifactTimestamp names backup/export/report files.
const artifactTimestamp = "20060102_150405"

// artifactName builds "<stem>_<timestamp>.<ext>", suffixed with the run's
// task handle so two runs landing in the same second never share a path.
func artifactName(ctx context.Context, stem, ext string) string {
	name := stem + "_" + time.Now().Format(artifactTimestamp)
	if handle := domain.TaskHandle(ctx); handle != "" {
		name += "_" + handle
	}
	return name + "." + ext
}

const (
	reminderCutoffDays   = 7
	monthlyWindowDays    = 30
	exportWindowDays     = 7
	defaultSenderWorkers = 2
)

// TaskService implements the bodies of the scheduled jobs. Each job returns
// a human-readable result string recorded in the task status ledger.
type TaskService interface {
	SendDailyReminders(ctx context.Context) (string, error)
	GenerateMonthlyReport(ctx context.Context) (string, error)
	BackupDatabase(ctx context.Context) (string, error)
	ExportAnalytics(ctx context.Context) (string, error)
	UpdateLeaderboard(ctx context.Context) (string, error)
	CleanExpiredSessions(ctx context.Context) (string, error)
}

type taskServiceImpl struct {
	userRepo     domain.UserRepository
	attemptRepo  domain.AttemptRepository
	notifier     domain.Notifier
	renderer     *notification.Renderer
	cache        domain.Cache
	sessionStore domain.SessionStore
	dbPath       string
	tasksCfg     config.TasksConfig
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	userRepo domain.UserRepository,
	attemptRepo domain.AttemptRepository,
	notifier domain.Notifier,
	renderer *notification.Renderer,
	cacheClient domain.Cache,
	sessionStore domain.SessionStore,
	dbPath string,
	tasksCfg config.TasksConfig,
) TaskService {
	return &taskServiceImpl{
		userRepo:     userRepo,
		attemptRepo:  attemptRepo,
		notifier:     notifier,
		renderer:     renderer,
		cache:        cacheClient,
		sessionStore: sessionStore,
		dbPath:       dbPath,
		tasksCfg:     tasksCfg,
	}
}

// SendDailyReminders mails every user whose latest activity is older than the
// cutoff. Individual delivery failures are logged and skipped; the job only
// fails when the user query itself fails.
func (s *taskServiceImpl) SendDailyReminders(ctx context.Context) (string, error) {
	cutoff := time.Now().AddDate(0, 0, -reminderCutoffDays)
	users, err := s.attemptRepo.FindInactiveUsers(ctx, cutoff)
	if err != nil {
		return "", fmt.Errorf("failed to find inactive users: %w", err)
	}

	workers := s.tasksCfg.Workers
	if workers <= 0 {
		workers = defaultSenderWorkers
	}

	var sent atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, user := range users {
		user := user
		g.Go(func() error {
			msg, err := s.renderer.Reminder(notification.ReminderData{Username: user.Username})
			if err != nil {
				logger.Get().Warn("failed to render reminder", zap.Error(err), zap.String("userID", user.ID))
				return nil
			}
			if err := s.notifier.Send(gCtx, user.Email, msg.Subject, msg.HTML, msg.Text); err != nil {
				logger.Get().Warn("failed to send reminder",
					zap.Error(err),
					zap.String("userID", user.ID),
					zap.String("to", user.Email))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Sent reminders to %d users", sent.Load()), nil
}

// GenerateMonthlyReport mails each user a summary of their trailing 30 days
// and writes the full report set as a JSON artifact. Users with no attempts
// in the window are skipped.
func (s *taskServiceImpl) GenerateMonthlyReport(ctx context.Context) (string, error) {
	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}
	since := time.Now().AddDate(0, 0, -monthlyWindowDays)

	reports := make([]domain.MonthlyUserReport, 0, len(users))
	for _, user := range users {
		attempts, err := s.attemptRepo.GetAttemptsByUserSince(ctx, user.ID, since)
		if err != nil {
			return "", fmt.Errorf("failed to load attempts for user %s: %w", user.ID, err)
		}
		if len(attempts) == 0 {
			continue
		}

		var totalScore, totalMinutes float64
		for _, a := range attempts {
			totalScore += a.Score
			if d := a.DurationMinutes(); d != nil {
				totalMinutes += *d
			}
		}
		report := domain.MonthlyUserReport{
			UserID:           user.ID,
			Username:         user.Username,
			Email:            user.Email,
			TotalQuizzes:     len(attempts),
			AvgScore:         totalScore / float64(len(attempts)),
			TotalTimeMinutes: totalMinutes,
		}
		reports = append(reports, report)

		msg, err := s.renderer.MonthlyReport(notification.MonthlyReportData{
			Username:         report.Username,
			TotalQuizzes:     report.TotalQuizzes,
			AvgScore:         report.AvgScore,
			TotalTimeMinutes: report.TotalTimeMinutes,
		})
		if err != nil {
			logger.Get().Warn("failed to render monthly report", zap.Error(err), zap.String("userID", user.ID))
			continue
		}
		if err := s.notifier.Send(ctx, user.Email, msg.Subject, msg.HTML, msg.Text); err != nil {
			logger.Get().Warn("failed to send monthly report",
				zap.Error(err),
				zap.String("userID", user.ID),
				zap.String("to", user.Email))
		}
	}

	if err := s.writeReportArtifact(ctx, reports); err != nil {
		return "", err
	}
	return fmt.Sprintf("Generated monthly reports for %d users", len(reports)), nil
}

func (s *taskServiceImpl) writeReportArtifact(ctx context.Context, reports []domain.MonthlyUserReport) error {
	if err := os.MkdirAll(s.tasksCfg.ReportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	path := filepath.Join(s.tasksCfg.ReportDir, artifactName(ctx, "monthly_report", "json"))
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal monthly report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write monthly report artifact: %w", err)
	}
	logger.Get().Info("monthly report artifact written", zap.String("path", path))
	return nil
}

// BackupDatabase copies the live database file into the backup directory.
func (s *taskServiceImpl) BackupDatabase(ctx context.Context) (string, error) {
	if _, err := os.Stat(s.dbPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("database file not found: %s", s.dbPath)
		}
		return "", fmt.Errorf("failed to stat database file: %w", err)
	}
	if err := os.MkdirAll(s.tasksCfg.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	dest := filepath.Join(s.tasksCfg.BackupDir, artifactName(ctx, "quiz_backup", "db"))
	src, err := os.Open(s.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("failed to copy database file: %w", err)
	}
	logger.Get().Info("database backed up", zap.String("path", dest))
	return fmt.Sprintf("Database backed up to %s", dest), nil
}

// ExportAnalytics dumps the trailing week of attempts as CSV or JSON,
// depending on configuration. The result is the artifact path.
func (s *taskServiceImpl) ExportAnalytics(ctx context.Context) (string, error) {
	since := time.Now().AddDate(0, 0, -exportWindowDays)
	rows, err := s.attemptRepo.AttemptsForExport(ctx, since)
	if err != nil {
		return "", fmt.Errorf("failed to load attempts for export: %w", err)
	}
	if err := os.MkdirAll(s.tasksCfg.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	format := s.tasksCfg.ExportFormat
	if format != "json" {
		format = "csv"
	}
	path := filepath.Join(s.tasksCfg.ExportDir, artifactName(ctx, "analytics", format))

	switch format {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal analytics export: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write analytics export: %w", err)
		}
	default:
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("failed to create analytics export: %w", err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write([]string{"User", "Quiz", "Score", "Date"}); err != nil {
			return "", fmt.Errorf("failed to write export header: %w", err)
		}
		for _, row := range rows {
			record := []string{
				row.Username,
				row.QuizTitle,
				strconv.FormatFloat(row.Score, 'f', 1, 64),
				row.Date,
			}
			if err := w.Write(record); err != nil {
				return "", fmt.Errorf("failed to write export row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("failed to flush analytics export: %w", err)
		}
	}

	logger.Get().Info("analytics exported", zap.String("path", path), zap.Int("rows", len(rows)))
	return path, nil
}

// UpdateLeaderboard snapshots the global top performers into the cache. The
// entry never expires; each run overwrites the previous snapshot.
func (s *taskServiceImpl) UpdateLeaderboard(ctx context.Context) (string, error) {
	entries, err := s.attemptRepo.TopUsersByAverageScore(ctx, leaderboardSize)
	if err != nil {
		return "", fmt.Errorf("failed to load top users: %w", err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	snapshot := dto.LeaderboardResponse{
		Entries:     entries,
		GeneratedAt: time.Now().Format(SubmittedAtLayout),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := s.cache.Set(ctx, cache.LeaderboardKey, string(data), 0); err != nil {
		return "", fmt.Errorf("failed to store leaderboard: %w", err)
	}
	return fmt.Sprintf("Leaderboard updated with %d entries", len(entries)), nil
}

// CleanExpiredSessions delegates to the session store.
func (s *taskServiceImpl) CleanExpiredSessions(ctx context.Context) (string, error) {
	removed, err := s.sessionStore.CleanupExpired(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to clean expired sessions: %w", err)
	}
	return fmt.Sprintf("Removed %d expired sessions", removed), nil
}
