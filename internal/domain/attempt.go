package domain

import (
	"context"
	"time"
)

// SubmittedAnswers maps a question id to the raw submitted value. Values come
// straight from the request body and may be missing or malformed for any
// question; the scoring engine degrades those to "incorrect".
type SubmittedAnswers map[string]any

// ResponseEntry is one row of a scored attempt's response sheet.
type ResponseEntry struct {
	QuestionID    string   `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    *string  `json:"user_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Marks         int      `json:"marks"`
	ScoredMarks   int      `json:"scored_marks"`
}

// QuizAttempt is one student's completed submission for one quiz. Attempts
// are append-only: once recorded they are never edited.
type QuizAttempt struct {
	ID            string
	QuizID        string
	UserID        string
	Score         float64 // 0-100
	StartedAt     time.Time
	CompletedAt   *time.Time
	Answers       SubmittedAnswers
	ResponseSheet []ResponseEntry
	CreatedAt     time.Time
}

// NewQuizAttempt creates an attempt record from a scored submission.
func NewQuizAttempt(quizID, userID string, score float64, answers SubmittedAnswers, sheet []ResponseEntry, startedAt, completedAt time.Time) *QuizAttempt {
	return &QuizAttempt{
		QuizID:        quizID,
		UserID:        userID,
		Score:         score,
		StartedAt:     startedAt,
		CompletedAt:   &completedAt,
		Answers:       answers,
		ResponseSheet: sheet,
		CreatedAt:     time.Now(),
	}
}

// DurationMinutes returns the attempt duration in minutes, rounded to one
// decimal, or nil when the attempt never completed.
func (a *QuizAttempt) DurationMinutes() *float64 {
	if a.CompletedAt == nil {
		return nil
	}
	m := a.CompletedAt.Sub(a.StartedAt).Minutes()
	m = float64(int(m*10+0.5)) / 10
	return &m
}

// AttemptRepository is the append-only ledger of submissions plus the
// aggregate queries reporting is built on.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	GetAttemptByID(ctx context.Context, id string) (*QuizAttempt, error)
	GetAttemptsByUser(ctx context.Context, userID string, limit int) ([]*QuizAttempt, error)
	GetAttemptsByUserSince(ctx context.Context, userID string, since time.Time) ([]*QuizAttempt, error)
	AttemptHistory(ctx context.Context, userID string) ([]AttemptHistoryRow, error)
	DeleteByQuizID(ctx context.Context, quizID string) error

	CountAttempts(ctx context.Context, filter ReportFilter) (int, error)
	AverageScore(ctx context.Context, filter ReportFilter) (float64, error)
	AverageScoreByUser(ctx context.Context, userID string) (float64, error)
	CountAttemptsByUser(ctx context.Context, userID string) (int, error)
	CountDistinctUsers(ctx context.Context, filter ReportFilter) (int, error)
	DailyActivity(ctx context.Context, filter ReportFilter) ([]DailyActivity, error)
	QuizActivity(ctx context.Context, filter ReportFilter) ([]QuizActivity, error)
	TopUsersByAverageScore(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	AttemptsForExport(ctx context.Context, since time.Time) ([]AttemptExportRow, error)
	FindInactiveUsers(ctx context.Context, cutoff time.Time) ([]*User, error)
}
