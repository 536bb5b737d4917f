package models

import (
	"database/sql"
	"time"
)

// Subject represents a subject row.
type Subject struct {
	ID          string         `db:"id"` // ULID
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Chapter represents a chapter row.
type Chapter struct {
	ID          string         `db:"id"`
	SubjectID   string         `db:"subject_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Quiz represents a quiz row. Start and end times are NULL for drafts.
type Quiz struct {
	ID          string         `db:"id"`
	ChapterID   string         `db:"chapter_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Duration    int            `db:"duration"`
	StartTime   sql.NullTime   `db:"start_time"`
	EndTime     sql.NullTime   `db:"end_time"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Question represents a question row. Options are stored as a JSON array.
type Question struct {
	ID            string      `db:"id"`
	QuizID        string      `db:"quiz_id"`
	QuestionText  string      `db:"question_text"`
	Options       StringSlice `db:"options"`
	CorrectAnswer int         `db:"correct_answer"`
	Marks         int         `db:"marks"`
}

// User represents a user row. Roles live in the user_roles junction table.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

// QuizAttempt represents an attempt row. Answers and the response sheet are
// stored as JSON columns.
type QuizAttempt struct {
	ID            string        `db:"id"`
	QuizID        string        `db:"quiz_id"`
	UserID        string        `db:"user_id"`
	Score         float64       `db:"score"`
	StartedAt     time.Time     `db:"started_at"`
	CompletedAt   sql.NullTime  `db:"completed_at"`
	Answers       JSONMap       `db:"answers"`
	ResponseSheet ResponseSheet `db:"response_sheet"`
	CreatedAt     time.Time     `db:"created_at"`
}
