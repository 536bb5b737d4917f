package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"

	"go.uber.org/zap"
)

const leaderboardSize = 10

// ReportService serves the aggregate dashboards built on the attempt ledger.
type ReportService interface {
	GetSummary(ctx context.Context, query dto.ReportQuery) (*dto.SummaryResponse, error)
	GetQuizActivity(ctx context.Context, query dto.ReportQuery) (*dto.QuizActivityResponse, error)
	GetTimeSeries(ctx context.Context, query dto.ReportQuery) (*dto.TimeSeriesResponse, error)
	GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponse, error)
}

type reportServiceImpl struct {
	attemptRepo domain.AttemptRepository
	quizRepo    domain.QuizRepository
	cache       domain.Cache
}

// NewReportService creates a new ReportService.
func NewReportService(attemptRepo domain.AttemptRepository, quizRepo domain.QuizRepository, cacheClient domain.Cache) ReportService {
	return &reportServiceImpl{attemptRepo: attemptRepo, quizRepo: quizRepo, cache: cacheClient}
}

// windowDays maps a window name to its length. "all" means unbounded and
// returns ok with days == 0.
func windowDays(window string) (int, error) {
	switch window {
	case dto.Window7Days:
		return 7, nil
	case dto.Window30Days:
		return 30, nil
	case dto.Window90Days:
		return 90, nil
	case dto.WindowAll, "":
		return 0, nil
	default:
		return 0, domain.NewValidationError(fmt.Sprintf("invalid window %q, expected one of 7days, 30days, 90days, all", window))
	}
}

// reportFilter translates the query parameters into the repository filter.
func reportFilter(query dto.ReportQuery, now time.Time) (domain.ReportFilter, error) {
	days, err := windowDays(query.Window)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	filter := domain.ReportFilter{SubjectID: query.SubjectID, ChapterID: query.ChapterID}
	if days > 0 {
		since := now.AddDate(0, 0, -days)
		filter.Since = &since
	}
	return filter, nil
}

func (s *reportServiceImpl) GetSummary(ctx context.Context, query dto.ReportQuery) (*dto.SummaryResponse, error) {
	filter, err := reportFilter(query, time.Now())
	if err != nil {
		return nil, err
	}

	total, err := s.attemptRepo.CountAttempts(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to count attempts: %w", err))
	}
	avg, err := s.attemptRepo.AverageScore(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to average scores: %w", err))
	}
	users, err := s.attemptRepo.CountDistinctUsers(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to count distinct users: %w", err))
	}
	quizzes, err := s.quizRepo.CountQuizzes(ctx, query.SubjectID, query.ChapterID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to count quizzes: %w", err))
	}
	return &dto.SummaryResponse{
		TotalAttempts: total,
		AverageScore:  avg,
		DistinctUsers: users,
		TotalQuizzes:  quizzes,
	}, nil
}

func (s *reportServiceImpl) GetQuizActivity(ctx context.Context, query dto.ReportQuery) (*dto.QuizActivityResponse, error) {
	filter, err := reportFilter(query, time.Now())
	if err != nil {
		return nil, err
	}

	rows, err := s.attemptRepo.QuizActivity(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to load quiz activity: %w", err))
	}
	if rows == nil {
		rows = []domain.QuizActivity{}
	}
	return &dto.QuizActivityResponse{Window: normalizeWindow(query.Window), Rows: rows}, nil
}

// GetTimeSeries returns one entry per calendar day of the window, zero-filled
// for days with no attempts. The "all" window is capped at 7 days so the
// series stays bounded.
func (s *reportServiceImpl) GetTimeSeries(ctx context.Context, query dto.ReportQuery) (*dto.TimeSeriesResponse, error) {
	days, err := windowDays(query.Window)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = 7
	}

	// The window is calendar-aligned: it starts at local midnight so early
	// attempts on the first day are not cut off.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -(days - 1))
	until := today.AddDate(0, 0, 1)
	filter := domain.ReportFilter{
		Since:     &from,
		Until:     &until,
		SubjectID: query.SubjectID,
		ChapterID: query.ChapterID,
	}
	rows, err := s.attemptRepo.DailyActivity(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to load daily activity: %w", err))
	}

	byDate := make(map[string]domain.DailyActivity, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}

	series := make([]domain.DailyActivity, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		if r, ok := byDate[date]; ok {
			series = append(series, r)
		} else {
			series = append(series, domain.DailyActivity{Date: date})
		}
	}
	return &dto.TimeSeriesResponse{Window: normalizeWindow(query.Window), Days: series}, nil
}

// GetLeaderboard serves the cached leaderboard written by the hourly job,
// falling back to a direct query when the cache has nothing yet.
func (s *reportServiceImpl) GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponse, error) {
	if raw, err := s.cache.Get(ctx, cache.LeaderboardKey); err == nil {
		var resp dto.LeaderboardResponse
		if err := json.Unmarshal([]byte(raw), &resp); err == nil {
			return &resp, nil
		}
		logger.Get().Warn("discarding malformed cached leaderboard", zap.String("key", cache.LeaderboardKey))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("leaderboard cache read failed", zap.Error(err))
	}

	entries, err := s.attemptRepo.TopUsersByAverageScore(ctx, leaderboardSize)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to load leaderboard: %w", err))
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return &dto.LeaderboardResponse{
		Entries:     entries,
		GeneratedAt: time.Now().Format(SubmittedAtLayout),
	}, nil
}

func normalizeWindow(window string) string {
	if window == "" {
		return dto.WindowAll
	}
	return window
}
