package domain

import "time"

// PassThreshold is the score at or above which an attempt counts as a pass.
// Every aggregate report shares this single constant.
const PassThreshold = 40.0

// ReportFilter narrows the aggregate report queries. The zero value means
// no filtering. ChapterID wins over SubjectID when both are set.
type ReportFilter struct {
	Since     *time.Time // inclusive lower bound on created_at
	Until     *time.Time // exclusive upper bound on created_at
	SubjectID string
	ChapterID string
}

// DailyActivity is one calendar day of the attempts time series.
type DailyActivity struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	AvgScore float64 `json:"avg_score"`
	Attempts int     `json:"attempts"`
}

// QuizActivity aggregates attempts per quiz.
type QuizActivity struct {
	QuizID   string  `json:"quiz_id"`
	Title    string  `json:"title"`
	Attempts int     `json:"attempts"`
	AvgScore float64 `json:"avg_score"`
	PassRate float64 `json:"pass_rate"` // percentage of attempts with score >= PassThreshold
}

// LeaderboardEntry ranks a user by average score across all attempts.
// Ties are broken by user id ascending, a stable but otherwise arbitrary order.
type LeaderboardEntry struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	AvgScore float64 `json:"avg_score"`
}

// AttemptHistoryRow is one row of a student's full attempt history, with the
// quiz, chapter and subject names joined on.
type AttemptHistoryRow struct {
	AttemptID   string
	QuizID      string
	QuizTitle   string
	ChapterName string
	SubjectName string
	Score       float64
	CreatedAt   time.Time
}

// AttemptExportRow is one record of the weekly analytics export.
type AttemptExportRow struct {
	Username  string  `json:"user"`
	QuizTitle string  `json:"quiz"`
	Score     float64 `json:"score"`
	Date      string  `json:"date"`
}

// MonthlyUserReport is the per-user payload of the monthly report job.
type MonthlyUserReport struct {
	UserID           string  `json:"user_id"`
	Username         string  `json:"username"`
	Email            string  `json:"-"`
	TotalQuizzes     int     `json:"total_quizzes"`
	AvgScore         float64 `json:"avg_score"`
	TotalTimeMinutes float64 `json:"total_time_minutes"`
}
