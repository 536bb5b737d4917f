package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/config"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	svc          TaskService
	userRepo     *MockUserRepository
	attemptRepo  *MockAttemptRepository
	notifier     *MockNotifier
	cache        *MockCache
	sessionStore *MockSessionStore
	dbPath       string
	cfg          config.TasksConfig
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	dir := t.TempDir()
	f := &taskFixture{
		userRepo:     new(MockUserRepository),
		attemptRepo:  new(MockAttemptRepository),
		notifier:     new(MockNotifier),
		cache:        new(MockCache),
		sessionStore: new(MockSessionStore),
		dbPath:       filepath.Join(dir, "quiz_master.db"),
		cfg: config.TasksConfig{
			BackupDir:    filepath.Join(dir, "backups"),
			ExportDir:    filepath.Join(dir, "exports"),
			ReportDir:    filepath.Join(dir, "reports"),
			ExportFormat: "csv",
			Workers:      2,
		},
	}
	f.svc = NewTaskService(
		f.userRepo, f.attemptRepo, f.notifier, notification.NewRenderer(),
		f.cache, f.sessionStore, f.dbPath, f.cfg)
	return f
}

func TestSendDailyReminders(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.attemptRepo.On("FindInactiveUsers", ctx, mock.AnythingOfType("time.Time")).Return([]*domain.User{
		{ID: "user1", Username: "alice", Email: "alice@example.com"},
		{ID: "user2", Username: "bob", Email: "bob@example.com"},
	}, nil)
	f.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SendDailyReminders(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Sent reminders to 2 users", result)
	f.notifier.AssertNumberOfCalls(t, "Send", 2)
}

func TestSendDailyReminders_DeliveryFailureIsSkipped(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.attemptRepo.On("FindInactiveUsers", ctx, mock.AnythingOfType("time.Time")).Return([]*domain.User{
		{ID: "user1", Username: "alice", Email: "alice@example.com"},
		{ID: "user2", Username: "bob", Email: "bob@example.com"},
	}, nil)
	f.notifier.On("Send", mock.Anything, "alice@example.com", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	f.notifier.On("Send", mock.Anything, "bob@example.com", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SendDailyReminders(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Sent reminders to 1 users", result)
}

func TestGenerateMonthlyReport_SkipsUsersWithoutAttempts(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	started := time.Now().Add(-30 * time.Minute)
	completed := started.Add(20 * time.Minute)
	f.userRepo.On("GetAllUsers", ctx).Return([]*domain.User{
		{ID: "user1", Username: "alice", Email: "alice@example.com"},
		{ID: "user2", Username: "bob", Email: "bob@example.com"},
	}, nil)
	f.attemptRepo.On("GetAttemptsByUserSince", ctx, "user1", mock.AnythingOfType("time.Time")).Return([]*domain.QuizAttempt{
		{ID: "att1", Score: 80, StartedAt: started, CompletedAt: &completed},
		{ID: "att2", Score: 60, StartedAt: started, CompletedAt: &completed},
	}, nil)
	f.attemptRepo.On("GetAttemptsByUserSince", ctx, "user2", mock.AnythingOfType("time.Time")).Return([]*domain.QuizAttempt{}, nil)
	f.notifier.On("Send", ctx, "alice@example.com", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.GenerateMonthlyReport(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Generated monthly reports for 1 users", result)
	f.notifier.AssertNumberOfCalls(t, "Send", 1)

	entries, err := os.ReadDir(f.cfg.ReportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(f.cfg.ReportDir, entries[0].Name()))
	require.NoError(t, err)
	var reports []domain.MonthlyUserReport
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "alice", reports[0].Username)
	assert.Equal(t, 2, reports[0].TotalQuizzes)
	assert.Equal(t, 70.0, reports[0].AvgScore)
	assert.Equal(t, 40.0, reports[0].TotalTimeMinutes)
}

func TestBackupDatabase(t *testing.T) {
	f := newTaskFixture(t)
	require.NoError(t, os.WriteFile(f.dbPath, []byte("sqlite payload"), 0o644))

	result, err := f.svc.BackupDatabase(context.Background())

	require.NoError(t, err)
	assert.Contains(t, result, "Database backed up to ")

	entries, err := os.ReadDir(f.cfg.BackupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "quiz_backup_"))

	copied, err := os.ReadFile(filepath.Join(f.cfg.BackupDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("sqlite payload"), copied)
}

func TestBackupDatabase_RunsGetDistinctFiles(t *testing.T) {
	f := newTaskFixture(t)
	require.NoError(t, os.WriteFile(f.dbPath, []byte("sqlite payload"), 0o644))

	// Two runs in the same second must not share a backup path; the task
	// handle keeps them apart.
	_, err := f.svc.BackupDatabase(domain.WithTaskHandle(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	require.NoError(t, err)
	_, err = f.svc.BackupDatabase(domain.WithTaskHandle(context.Background(), "01BX5ZZKBKACTAV9WEVGEMMVRZ"))
	require.NoError(t, err)

	entries, err := os.ReadDir(f.cfg.BackupDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	names := entries[0].Name() + " " + entries[1].Name()
	assert.Contains(t, names, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Contains(t, names, "01BX5ZZKBKACTAV9WEVGEMMVRZ")
}

func TestBackupDatabase_MissingFile(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.BackupDatabase(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database file not found")
}

func TestExportAnalytics_CSV(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.attemptRepo.On("AttemptsForExport", ctx, mock.AnythingOfType("time.Time")).Return([]domain.AttemptExportRow{
		{Username: "alice", QuizTitle: "Linear Equations", Score: 87.5, Date: "2026-08-29"},
	}, nil)

	path, err := f.svc.ExportAnalytics(ctx)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "User,Quiz,Score,Date", lines[0])
	assert.Equal(t, "alice,Linear Equations,87.5,2026-08-29", lines[1])
}

func TestExportAnalytics_JSON(t *testing.T) {
	f := newTaskFixture(t)
	f.cfg.ExportFormat = "json"
	f.svc = NewTaskService(
		f.userRepo, f.attemptRepo, f.notifier, notification.NewRenderer(),
		f.cache, f.sessionStore, f.dbPath, f.cfg)
	ctx := context.Background()

	f.attemptRepo.On("AttemptsForExport", ctx, mock.AnythingOfType("time.Time")).Return([]domain.AttemptExportRow{
		{Username: "alice", QuizTitle: "Linear Equations", Score: 87.5, Date: "2026-08-29"},
	}, nil)

	path, err := f.svc.ExportAnalytics(ctx)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []domain.AttemptExportRow
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
}

func TestExportAnalytics_PathCarriesTaskHandle(t *testing.T) {
	f := newTaskFixture(t)
	ctx := domain.WithTaskHandle(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")

	f.attemptRepo.On("AttemptsForExport", ctx, mock.AnythingOfType("time.Time")).
		Return([]domain.AttemptExportRow{}, nil)

	path, err := f.svc.ExportAnalytics(ctx)

	require.NoError(t, err)
	assert.Contains(t, path, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.True(t, strings.HasSuffix(path, ".csv"))
}

func TestUpdateLeaderboard_WritesSnapshotWithoutExpiry(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.attemptRepo.On("TopUsersByAverageScore", ctx, leaderboardSize).Return([]domain.LeaderboardEntry{
		{UserID: "user1", Username: "alice", AvgScore: 91.5},
	}, nil)

	var stored string
	f.cache.On("Set", ctx, cache.LeaderboardKey, mock.AnythingOfType("string"), time.Duration(0)).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil)

	result, err := f.svc.UpdateLeaderboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Leaderboard updated with 1 entries", result)

	var snapshot dto.LeaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(stored), &snapshot))
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, "alice", snapshot.Entries[0].Username)
	assert.NotEmpty(t, snapshot.GeneratedAt)
}

func TestCleanExpiredSessions(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.sessionStore.On("CleanupExpired", ctx).Return(3, nil)

	result, err := f.svc.CleanExpiredSessions(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Removed 3 expired sessions", result)
}
