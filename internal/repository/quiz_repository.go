package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"
	"quiz-master/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db DBTX
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:          m.ID,
		ChapterID:   m.ChapterID,
		Title:       m.Title,
		Description: m.Description.String,
		Duration:    m.Duration,
		StartTime:   util.NullTimeToPtr(m.StartTime),
		EndTime:     util.NullTimeToPtr(m.EndTime),
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainQuiz(q *domain.Quiz) *models.Quiz {
	m := &models.Quiz{
		ID:          q.ID,
		ChapterID:   q.ChapterID,
		Title:       q.Title,
		Description: util.StringToNullString(q.Description),
		Duration:    q.Duration,
		CreatedAt:   q.CreatedAt,
	}
	if q.StartTime != nil {
		m.StartTime = util.TimeToNullTime(*q.StartTime)
	}
	if q.EndTime != nil {
		m.EndTime = util.TimeToNullTime(*q.EndTime)
	}
	return m
}

const quizColumns = `id, chapter_id, title, description, duration, start_time, end_time, created_at`

func (r *sqlxQuizRepository) GetQuizzesByChapter(ctx context.Context, chapterID string) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Quiz
	err := exec.SelectContext(ctx, &rows,
		`SELECT `+quizColumns+` FROM quizzes WHERE chapter_id = ? ORDER BY created_at`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to select quizzes for chapter %s: %w", chapterID, err)
	}
	quizzes := make([]*domain.Quiz, len(rows))
	for i := range rows {
		quizzes[i] = toDomainQuiz(&rows[i])
	}
	return quizzes, nil
}

func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Quiz
	err := exec.GetContext(ctx, &row, `SELECT `+quizColumns+` FROM quizzes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz %s: %w", id, err)
	}
	return toDomainQuiz(&row), nil
}

// GetActiveQuizzes returns quizzes whose window contains now, both ends
// inclusive.
func (r *sqlxQuizRepository) GetActiveQuizzes(ctx context.Context, now time.Time) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Quiz
	err := exec.SelectContext(ctx, &rows,
		`SELECT `+quizColumns+` FROM quizzes WHERE start_time <= ? AND end_time >= ? ORDER BY end_time`, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to select active quizzes: %w", err)
	}
	quizzes := make([]*domain.Quiz, len(rows))
	for i := range rows {
		quizzes[i] = toDomainQuiz(&rows[i])
	}
	return quizzes, nil
}

func (r *sqlxQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainQuiz(quiz)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO quizzes (id, chapter_id, title, description, duration, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChapterID, m.Title, m.Description, m.Duration, m.StartTime, m.EndTime, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}
	return nil
}

func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainQuiz(quiz)
	_, err := exec.ExecContext(ctx,
		`UPDATE quizzes SET title = ?, description = ?, duration = ?, start_time = ?, end_time = ? WHERE id = ?`,
		m.Title, m.Description, m.Duration, m.StartTime, m.EndTime, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", quiz.ID, err)
	}
	return nil
}

func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	return nil
}

func (r *sqlxQuizRepository) CountQuestions(ctx context.Context, quizID string) (int, error) {
	exec := GetExecutor(ctx, r.db)
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM questions WHERE quiz_id = ?`, quizID); err != nil {
		return 0, fmt.Errorf("failed to count questions for quiz %s: %w", quizID, err)
	}
	return count, nil
}

// CountQuizzes counts quizzes, optionally narrowed to one chapter or one
// subject. The chapter filter wins when both are set.
func (r *sqlxQuizRepository) CountQuizzes(ctx context.Context, subjectID, chapterID string) (int, error) {
	exec := GetExecutor(ctx, r.db)
	query := `SELECT COUNT(*) FROM quizzes`
	var args []interface{}
	switch {
	case chapterID != "":
		query += ` WHERE chapter_id = ?`
		args = append(args, chapterID)
	case subjectID != "":
		query = `SELECT COUNT(*) FROM quizzes q JOIN chapters c ON c.id = q.chapter_id WHERE c.subject_id = ?`
		args = append(args, subjectID)
	}
	var count int
	if err := exec.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}
