package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSummary(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	quizRepo := new(MockQuizRepository)
	svc := NewReportService(attemptRepo, quizRepo, new(MockCache))
	ctx := context.Background()

	windowed := mock.MatchedBy(func(f domain.ReportFilter) bool { return f.Since != nil })
	attemptRepo.On("CountAttempts", ctx, windowed).Return(42, nil)
	attemptRepo.On("AverageScore", ctx, windowed).Return(68.2, nil)
	attemptRepo.On("CountDistinctUsers", ctx, windowed).Return(7, nil)
	quizRepo.On("CountQuizzes", ctx, "", "").Return(5, nil)

	summary, err := svc.GetSummary(ctx, dto.ReportQuery{Window: dto.Window30Days})

	require.NoError(t, err)
	assert.Equal(t, 42, summary.TotalAttempts)
	assert.Equal(t, 68.2, summary.AverageScore)
	assert.Equal(t, 7, summary.DistinctUsers)
	assert.Equal(t, 5, summary.TotalQuizzes)
}

func TestGetSummary_AllWindowPassesUnboundedFilter(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	quizRepo := new(MockQuizRepository)
	svc := NewReportService(attemptRepo, quizRepo, new(MockCache))
	ctx := context.Background()

	attemptRepo.On("CountAttempts", ctx, domain.ReportFilter{}).Return(1, nil)
	attemptRepo.On("AverageScore", ctx, domain.ReportFilter{}).Return(50.0, nil)
	attemptRepo.On("CountDistinctUsers", ctx, domain.ReportFilter{}).Return(1, nil)
	quizRepo.On("CountQuizzes", ctx, "", "").Return(3, nil)

	_, err := svc.GetSummary(ctx, dto.ReportQuery{Window: dto.WindowAll})

	require.NoError(t, err)
	attemptRepo.AssertExpectations(t)
}

func TestGetSummary_ChapterFilterNarrowsEveryQuery(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	quizRepo := new(MockQuizRepository)
	svc := NewReportService(attemptRepo, quizRepo, new(MockCache))
	ctx := context.Background()

	scoped := domain.ReportFilter{ChapterID: "chapter1"}
	attemptRepo.On("CountAttempts", ctx, scoped).Return(4, nil)
	attemptRepo.On("AverageScore", ctx, scoped).Return(62.5, nil)
	attemptRepo.On("CountDistinctUsers", ctx, scoped).Return(2, nil)
	quizRepo.On("CountQuizzes", ctx, "", "chapter1").Return(1, nil)

	summary, err := svc.GetSummary(ctx, dto.ReportQuery{ChapterID: "chapter1"})

	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalAttempts)
	assert.Equal(t, 1, summary.TotalQuizzes)
	attemptRepo.AssertExpectations(t)
	quizRepo.AssertExpectations(t)
}

func TestGetSummary_RejectsUnknownWindow(t *testing.T) {
	svc := NewReportService(new(MockAttemptRepository), new(MockQuizRepository), new(MockCache))

	_, err := svc.GetSummary(context.Background(), dto.ReportQuery{Window: "fortnight"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrValidation, domainErr.Code)
}

func TestGetQuizActivity_EmptyResultIsNotNil(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), new(MockCache))
	ctx := context.Background()

	attemptRepo.On("QuizActivity", ctx, domain.ReportFilter{}).Return(nil, nil)

	resp, err := svc.GetQuizActivity(ctx, dto.ReportQuery{})

	require.NoError(t, err)
	assert.Equal(t, dto.WindowAll, resp.Window)
	assert.NotNil(t, resp.Rows)
	assert.Empty(t, resp.Rows)
}

func TestGetQuizActivity_SubjectFilterPropagates(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), new(MockCache))
	ctx := context.Background()

	attemptRepo.On("QuizActivity", ctx, domain.ReportFilter{SubjectID: "subj1"}).
		Return([]domain.QuizActivity{{QuizID: "quiz1", Title: "Linear Equations", Attempts: 3}}, nil)

	resp, err := svc.GetQuizActivity(ctx, dto.ReportQuery{SubjectID: "subj1"})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	attemptRepo.AssertExpectations(t)
}

func TestGetTimeSeries_ZeroFillsMissingDays(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), new(MockCache))
	ctx := context.Background()

	today := time.Now().Format("2006-01-02")
	attemptRepo.On("DailyActivity", ctx, mock.AnythingOfType("domain.ReportFilter")).
		Return([]domain.DailyActivity{{Date: today, Attempts: 3, AvgScore: 80}}, nil)

	resp, err := svc.GetTimeSeries(ctx, dto.ReportQuery{Window: dto.Window7Days})

	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	last := resp.Days[6]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, 3, last.Attempts)
	for _, day := range resp.Days[:6] {
		assert.Zero(t, day.Attempts)
		assert.Zero(t, day.AvgScore)
		assert.NotEmpty(t, day.Date)
	}
}

func TestGetTimeSeries_WindowStartsAtMidnight(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), new(MockCache))
	ctx := context.Background()

	attemptRepo.On("DailyActivity", ctx, mock.MatchedBy(func(f domain.ReportFilter) bool {
		if f.Since == nil || f.Until == nil {
			return false
		}
		h, m, s := f.Since.Clock()
		// 7 calendar days from the first day's midnight through end of today.
		return h == 0 && m == 0 && s == 0 && f.Since.Nanosecond() == 0 &&
			f.Since.AddDate(0, 0, 7).Equal(*f.Until)
	})).Return([]domain.DailyActivity{}, nil)

	_, err := svc.GetTimeSeries(ctx, dto.ReportQuery{Window: dto.Window7Days})

	require.NoError(t, err)
	attemptRepo.AssertExpectations(t)
}

func TestGetTimeSeries_AllWindowCappedAtSevenDays(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), new(MockCache))
	ctx := context.Background()

	attemptRepo.On("DailyActivity", ctx, mock.AnythingOfType("domain.ReportFilter")).
		Return([]domain.DailyActivity{}, nil)

	resp, err := svc.GetTimeSeries(ctx, dto.ReportQuery{Window: dto.WindowAll})

	require.NoError(t, err)
	assert.Len(t, resp.Days, 7)
}

func TestGetTimeSeries_ChapterFilterPropagates(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), new(MockCache))
	ctx := context.Background()

	attemptRepo.On("DailyActivity", ctx, mock.MatchedBy(func(f domain.ReportFilter) bool {
		return f.ChapterID == "chapter1"
	})).Return([]domain.DailyActivity{}, nil)

	_, err := svc.GetTimeSeries(ctx, dto.ReportQuery{Window: dto.Window7Days, ChapterID: "chapter1"})

	require.NoError(t, err)
	attemptRepo.AssertExpectations(t)
}

func TestGetLeaderboard_ServedFromCache(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	cacheClient := new(MockCache)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), cacheClient)
	ctx := context.Background()

	cached := dto.LeaderboardResponse{
		Entries:     []domain.LeaderboardEntry{{UserID: "user1", Username: "alice", AvgScore: 91.5}},
		GeneratedAt: "2026-03-01T09:00:00",
	}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	cacheClient.On("Get", ctx, cache.LeaderboardKey).Return(string(raw), nil)

	resp, err := svc.GetLeaderboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached.Entries, resp.Entries)
	attemptRepo.AssertNotCalled(t, "TopUsersByAverageScore", mock.Anything, mock.Anything)
}

func TestGetLeaderboard_FallsBackOnCacheMiss(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	cacheClient := new(MockCache)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), cacheClient)
	ctx := context.Background()

	cacheClient.On("Get", ctx, cache.LeaderboardKey).Return("", domain.ErrCacheMiss)
	attemptRepo.On("TopUsersByAverageScore", ctx, leaderboardSize).Return([]domain.LeaderboardEntry{
		{UserID: "user1", Username: "alice", AvgScore: 91.5},
	}, nil)

	resp, err := svc.GetLeaderboard(ctx)

	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "alice", resp.Entries[0].Username)
}

func TestGetLeaderboard_FallsBackOnMalformedCacheEntry(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	cacheClient := new(MockCache)
	svc := NewReportService(attemptRepo, new(MockQuizRepository), cacheClient)
	ctx := context.Background()

	cacheClient.On("Get", ctx, cache.LeaderboardKey).Return("not-json", nil)
	attemptRepo.On("TopUsersByAverageScore", ctx, leaderboardSize).Return(nil, nil)

	resp, err := svc.GetLeaderboard(ctx)

	require.NoError(t, err)
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)
}
