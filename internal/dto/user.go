package dto

import "quiz-master/internal/domain"

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// UpdateUserRequest is the request body for updating a user
type UpdateUserRequest struct {
	Username *string   `json:"username"`
	Email    *string   `json:"email"`
	Roles    *[]string `json:"roles"`
}

// UserResponse represents a user in the API response
type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Active   bool     `json:"active"`
	Roles    []string `json:"roles"`
}

// StudentStatsResponse summarizes one student's performance
type StudentStatsResponse struct {
	TotalAttempts  int              `json:"total_attempts"`
	AverageScore   float64          `json:"average_score"`
	RecentAttempts []AttemptSummary `json:"recent_attempts"`
}

// AttemptSummary is one row of a student's attempt history
type AttemptSummary struct {
	AttemptID   string  `json:"attempt_id"`
	QuizID      string  `json:"quiz_id"`
	Score       float64 `json:"score"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

// AttemptHistoryResponse is a student's full attempt history with aggregate
// stats computed over every listed attempt.
type AttemptHistoryResponse struct {
	Attempts []AttemptHistoryEntry `json:"attempts"`
	Stats    AttemptHistoryStats   `json:"stats"`
}

// AttemptHistoryEntry is one attempt in the history listing
type AttemptHistoryEntry struct {
	AttemptID   string  `json:"attempt_id"`
	QuizID      string  `json:"quiz_id"`
	QuizTitle   string  `json:"quiz_title"`
	ChapterName string  `json:"chapter_name"`
	SubjectName string  `json:"subject_name"`
	Score       float64 `json:"score"`
	Date        string  `json:"date"`
}

// AttemptHistoryStats aggregates the listed attempts
type AttemptHistoryStats struct {
	TotalAttempts int     `json:"totalAttempts"`
	AverageScore  float64 `json:"averageScore"`
	PassRate      float64 `json:"passRate"`
}

// AttemptDetailResponse is one recorded attempt with its full response sheet
type AttemptDetailResponse struct {
	AttemptID       string                 `json:"attempt_id"`
	QuizID          string                 `json:"quiz_id"`
	Score           float64                `json:"score"`
	StartedAt       string                 `json:"started_at"`
	CompletedAt     string                 `json:"completed_at,omitempty"`
	DurationMinutes *float64               `json:"duration_minutes,omitempty"`
	Questions       []domain.ResponseEntry `json:"questions"`
}
