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

// sqlxSubjectRepository implements domain.SubjectRepository using sqlx.
type sqlxSubjectRepository struct {
	db DBTX
}

// NewSQLXSubjectRepository creates a new instance of sqlxSubjectRepository.
func NewSQLXSubjectRepository(db *sqlx.DB) domain.SubjectRepository {
	return &sqlxSubjectRepository{db: db}
}

func toDomainSubject(m *models.Subject) *domain.Subject {
	if m == nil {
		return nil
	}
	return &domain.Subject{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainSubject(s *domain.Subject) *models.Subject {
	return &models.Subject{
		ID:          s.ID,
		Name:        s.Name,
		Description: util.StringToNullString(s.Description),
		CreatedAt:   s.CreatedAt,
	}
}

func (r *sqlxSubjectRepository) GetAllSubjects(ctx context.Context) ([]*domain.Subject, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Subject
	if err := exec.SelectContext(ctx, &rows, `SELECT id, name, description, created_at FROM subjects ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to select subjects: %w", err)
	}
	subjects := make([]*domain.Subject, len(rows))
	for i := range rows {
		subjects[i] = toDomainSubject(&rows[i])
	}
	return subjects, nil
}

func (r *sqlxSubjectRepository) GetSubjectByID(ctx context.Context, id string) (*domain.Subject, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Subject
	err := exec.GetContext(ctx, &row, `SELECT id, name, description, created_at FROM subjects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject %s: %w", id, err)
	}
	return toDomainSubject(&row), nil
}

func (r *sqlxSubjectRepository) SaveSubject(ctx context.Context, subject *domain.Subject) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainSubject(subject)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO subjects (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.Description, m.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("subject with name %q already exists", subject.Name))
		}
		return fmt.Errorf("failed to insert subject: %w", err)
	}
	return nil
}

func (r *sqlxSubjectRepository) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainSubject(subject)
	_, err := exec.ExecContext(ctx,
		`UPDATE subjects SET name = ?, description = ? WHERE id = ?`,
		m.Name, m.Description, m.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("subject with name %q already exists", subject.Name))
		}
		return fmt.Errorf("failed to update subject %s: %w", subject.ID, err)
	}
	return nil
}

func (r *sqlxSubjectRepository) DeleteSubject(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete subject %s: %w", id, err)
	}
	return nil
}

func (r *sqlxSubjectRepository) CountChapters(ctx context.Context, subjectID string) (int, error) {
	exec := GetExecutor(ctx, r.db)
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM chapters WHERE subject_id = ?`, subjectID); err != nil {
		return 0, fmt.Errorf("failed to count chapters for subject %s: %w", subjectID, err)
	}
	return count, nil
}
