package dto

import "quiz-master/internal/domain"

// Report windows accepted by the reporting endpoints.
const (
	Window7Days  = "7days"
	Window30Days = "30days"
	Window90Days = "90days"
	WindowAll    = "all"
)

// ReportQuery carries the shared filter parameters of the reporting
// endpoints. All fields are optional; an empty ChapterID and SubjectID means
// the whole catalog.
type ReportQuery struct {
	Window    string
	SubjectID string
	ChapterID string
}

// SummaryResponse is the aggregate dashboard report
type SummaryResponse struct {
	TotalAttempts int     `json:"totalAttempts"`
	AverageScore  float64 `json:"averageScore"`
	DistinctUsers int     `json:"distinctUsers"`
	TotalQuizzes  int     `json:"totalQuizzes"`
}

// QuizActivityResponse is the per-quiz activity report
type QuizActivityResponse struct {
	Window string                `json:"window"`
	Rows   []domain.QuizActivity `json:"rows"`
}

// TimeSeriesResponse is the per-day activity report. Every calendar day of
// the window appears exactly once, zero-filled when no attempts exist.
type TimeSeriesResponse struct {
	Window string                 `json:"window"`
	Days   []domain.DailyActivity `json:"days"`
}

// LeaderboardResponse is the global top performers list
type LeaderboardResponse struct {
	Entries     []domain.LeaderboardEntry `json:"entries"`
	GeneratedAt string                    `json:"generated_at"`
}
