package domain

import (
	"context"
	"time"
)

// Subject is a top-level course area. Deleting a subject removes its entire
// subtree: chapters, quizzes, questions and attempts.
type Subject struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewSubject creates a new Subject instance
func NewSubject(name, description string) *Subject {
	return &Subject{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// Validate validates the subject
func (s *Subject) Validate() error {
	if s.Name == "" {
		return NewValidationError("name is required")
	}
	return nil
}

// Chapter belongs to exactly one Subject.
type Chapter struct {
	ID          string
	SubjectID   string
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewChapter creates a new Chapter instance
func NewChapter(subjectID, name, description string) *Chapter {
	return &Chapter{
		SubjectID:   subjectID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// Validate validates the chapter
func (c *Chapter) Validate() error {
	if c.SubjectID == "" {
		return NewValidationError("subject ID is required")
	}
	if c.Name == "" {
		return NewValidationError("name is required")
	}
	return nil
}

// SubjectRepository defines the interface for subject persistence.
type SubjectRepository interface {
	GetAllSubjects(ctx context.Context) ([]*Subject, error)
	GetSubjectByID(ctx context.Context, id string) (*Subject, error)
	SaveSubject(ctx context.Context, subject *Subject) error
	UpdateSubject(ctx context.Context, subject *Subject) error
	DeleteSubject(ctx context.Context, id string) error
	CountChapters(ctx context.Context, subjectID string) (int, error)
}

// ChapterRepository defines the interface for chapter persistence.
type ChapterRepository interface {
	GetChaptersBySubject(ctx context.Context, subjectID string) ([]*Chapter, error)
	GetChapterByID(ctx context.Context, id string) (*Chapter, error)
	SaveChapter(ctx context.Context, chapter *Chapter) error
	UpdateChapter(ctx context.Context, chapter *Chapter) error
	DeleteChapter(ctx context.Context, id string) error
	CountQuizzes(ctx context.Context, chapterID string) (int, error)
}
