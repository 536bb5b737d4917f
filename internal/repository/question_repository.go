package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxQuestionRepository implements domain.QuestionRepository using sqlx.
type sqlxQuestionRepository struct {
	db DBTX
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		QuestionText:  m.QuestionText,
		Options:       m.Options,
		CorrectAnswer: m.CorrectAnswer,
		Marks:         m.Marks,
	}
}

func (r *sqlxQuestionRepository) GetQuestionsByQuiz(ctx context.Context, quizID string) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Question
	err := exec.SelectContext(ctx, &rows,
		`SELECT id, quiz_id, question_text, options, correct_answer, marks FROM questions WHERE quiz_id = ? ORDER BY id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to select questions for quiz %s: %w", quizID, err)
	}
	questions := make([]*domain.Question, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestion(&rows[i])
	}
	return questions, nil
}

func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Question
	err := exec.GetContext(ctx, &row,
		`SELECT id, quiz_id, question_text, options, correct_answer, marks FROM questions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}
	return toDomainQuestion(&row), nil
}

func (r *sqlxQuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx,
		`INSERT INTO questions (id, quiz_id, question_text, options, correct_answer, marks) VALUES (?, ?, ?, ?, ?, ?)`,
		question.ID, question.QuizID, question.QuestionText, models.StringSlice(question.Options), question.CorrectAnswer, question.Marks)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx,
		`UPDATE questions SET question_text = ?, options = ?, correct_answer = ?, marks = ? WHERE id = ?`,
		question.QuestionText, models.StringSlice(question.Options), question.CorrectAnswer, question.Marks, question.ID)
	if err != nil {
		return fmt.Errorf("failed to update question %s: %w", question.ID, err)
	}
	return nil
}

func (r *sqlxQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete question %s: %w", id, err)
	}
	return nil
}

// DeleteByQuizID purges all questions of a quiz. It runs inside the quiz
// delete transaction, after the quiz's attempts are gone.
func (r *sqlxQuestionRepository) DeleteByQuizID(ctx context.Context, quizID string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = ?`, quizID); err != nil {
		return fmt.Errorf("failed to delete questions for quiz %s: %w", quizID, err)
	}
	return nil
}
