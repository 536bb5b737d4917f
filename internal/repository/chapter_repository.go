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

// sqlxChapterRepository implements domain.ChapterRepository using sqlx.
type sqlxChapterRepository struct {
	db DBTX
}

// NewSQLXChapterRepository creates a new instance of sqlxChapterRepository.
func NewSQLXChapterRepository(db *sqlx.DB) domain.ChapterRepository {
	return &sqlxChapterRepository{db: db}
}

func toDomainChapter(m *models.Chapter) *domain.Chapter {
	if m == nil {
		return nil
	}
	return &domain.Chapter{
		ID:          m.ID,
		SubjectID:   m.SubjectID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *sqlxChapterRepository) GetChaptersBySubject(ctx context.Context, subjectID string) ([]*domain.Chapter, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Chapter
	err := exec.SelectContext(ctx, &rows,
		`SELECT id, subject_id, name, description, created_at FROM chapters WHERE subject_id = ? ORDER BY name`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to select chapters for subject %s: %w", subjectID, err)
	}
	chapters := make([]*domain.Chapter, len(rows))
	for i := range rows {
		chapters[i] = toDomainChapter(&rows[i])
	}
	return chapters, nil
}

func (r *sqlxChapterRepository) GetChapterByID(ctx context.Context, id string) (*domain.Chapter, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Chapter
	err := exec.GetContext(ctx, &row,
		`SELECT id, subject_id, name, description, created_at FROM chapters WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter %s: %w", id, err)
	}
	return toDomainChapter(&row), nil
}

func (r *sqlxChapterRepository) SaveChapter(ctx context.Context, chapter *domain.Chapter) error {
	exec := GetExecutor(ctx, r.db)
	createdAt := chapter.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO chapters (id, subject_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		chapter.ID, chapter.SubjectID, chapter.Name, util.StringToNullString(chapter.Description), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert chapter: %w", err)
	}
	return nil
}

func (r *sqlxChapterRepository) UpdateChapter(ctx context.Context, chapter *domain.Chapter) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx,
		`UPDATE chapters SET name = ?, description = ? WHERE id = ?`,
		chapter.Name, util.StringToNullString(chapter.Description), chapter.ID)
	if err != nil {
		return fmt.Errorf("failed to update chapter %s: %w", chapter.ID, err)
	}
	return nil
}

func (r *sqlxChapterRepository) DeleteChapter(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM chapters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete chapter %s: %w", id, err)
	}
	return nil
}

func (r *sqlxChapterRepository) CountQuizzes(ctx context.Context, chapterID string) (int, error) {
	exec := GetExecutor(ctx, r.db)
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM quizzes WHERE chapter_id = ?`, chapterID); err != nil {
		return 0, fmt.Errorf("failed to count quizzes for chapter %s: %w", chapterID, err)
	}
	return count, nil
}
