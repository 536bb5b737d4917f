package domain

import (
	"context"
	"time"
)

// QuizStatus is the temporal state of a quiz. It is derived from the quiz's
// schedule and the clock on every query; it is never stored.
type QuizStatus string

const (
	StatusDraft     QuizStatus = "draft"
	StatusScheduled QuizStatus = "scheduled"
	StatusActive    QuizStatus = "active"
	StatusExpired   QuizStatus = "expired"
)

// Quiz represents a timed quiz under a chapter.
type Quiz struct {
	ID          string
	ChapterID   string
	Title       string
	Description string
	Duration    int // minutes
	StartTime   *time.Time
	EndTime     *time.Time
	CreatedAt   time.Time
}

// NewQuiz creates a new Quiz. When start is nil the quiz opens immediately:
// the start defaults to the creation instant. The end time is always derived
// as start + duration; callers never supply it.
func NewQuiz(chapterID, title, description string, durationMinutes int, start *time.Time) *Quiz {
	now := time.Now()
	q := &Quiz{
		ChapterID:   chapterID,
		Title:       title,
		Description: description,
		Duration:    durationMinutes,
		CreatedAt:   now,
	}
	s := now
	if start != nil {
		s = *start
	}
	q.SetSchedule(s, durationMinutes)
	return q
}

// SetSchedule fixes the quiz window. End time is recomputed from
// start + duration so the two can never drift apart.
func (q *Quiz) SetSchedule(start time.Time, durationMinutes int) {
	q.Duration = durationMinutes
	q.StartTime = &start
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	q.EndTime = &end
}

// StatusAt derives the quiz status for the given instant. The active window
// is closed on both ends: the boundary instants count as active.
func (q *Quiz) StatusAt(now time.Time) QuizStatus {
	if q.StartTime == nil || q.EndTime == nil {
		return StatusDraft
	}
	if now.Before(*q.StartTime) {
		return StatusScheduled
	}
	if now.After(*q.EndTime) {
		return StatusExpired
	}
	return StatusActive
}

// IsActiveAt reports whether the quiz accepts submissions at the given instant.
func (q *Quiz) IsActiveAt(now time.Time) bool {
	return q.StatusAt(now) == StatusActive
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.ChapterID == "" {
		return NewValidationError("chapter ID is required")
	}
	if q.Title == "" {
		return NewValidationError("title is required")
	}
	if q.Duration <= 0 {
		return NewValidationError("duration must be positive")
	}
	return nil
}

// Question is a multiple-choice question owned by a quiz.
type Question struct {
	ID            string
	QuizID        string
	QuestionText  string
	Options       []string
	CorrectAnswer int // zero-based index into Options
	Marks         int
}

// NewQuestion creates a new Question. Marks default to 1 when non-positive.
func NewQuestion(quizID, text string, options []string, correctAnswer, marks int) *Question {
	if marks <= 0 {
		marks = 1
	}
	return &Question{
		QuizID:        quizID,
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Marks:         marks,
	}
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.QuizID == "" {
		return NewValidationError("quiz ID is required")
	}
	if q.QuestionText == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewValidationError("at least two options are required")
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return NewValidationError("correct answer index is out of range")
	}
	return nil
}

// QuizRepository defines the interface for quiz persistence.
type QuizRepository interface {
	GetQuizzesByChapter(ctx context.Context, chapterID string) ([]*Quiz, error)
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	GetActiveQuizzes(ctx context.Context, now time.Time) ([]*Quiz, error)
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
	CountQuestions(ctx context.Context, quizID string) (int, error)
	CountQuizzes(ctx context.Context, subjectID, chapterID string) (int, error)
}

// QuestionRepository defines the interface for question persistence.
type QuestionRepository interface {
	GetQuestionsByQuiz(ctx context.Context, quizID string) ([]*Question, error)
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	SaveQuestion(ctx context.Context, question *Question) error
	UpdateQuestion(ctx context.Context, question *Question) error
	DeleteQuestion(ctx context.Context, id string) error
	DeleteByQuizID(ctx context.Context, quizID string) error
}
