package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"
	"quiz-master/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
// Attempts are append-only: there is deliberately no update method.
type sqlxAttemptRepository struct {
	db DBTX
}

// NewSQLXAttemptRepository creates a new instance of sqlxAttemptRepository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	sheet := make([]domain.ResponseEntry, len(m.ResponseSheet))
	for i, e := range m.ResponseSheet {
		sheet[i] = domain.ResponseEntry{
			QuestionID:    e.QuestionID,
			QuestionText:  e.QuestionText,
			Options:       e.Options,
			CorrectAnswer: e.CorrectAnswer,
			UserAnswer:    e.UserAnswer,
			IsCorrect:     e.IsCorrect,
			Marks:         e.Marks,
			ScoredMarks:   e.ScoredMarks,
		}
	}
	return &domain.QuizAttempt{
		ID:            m.ID,
		QuizID:        m.QuizID,
		UserID:        m.UserID,
		Score:         m.Score,
		StartedAt:     m.StartedAt,
		CompletedAt:   util.NullTimeToPtr(m.CompletedAt),
		Answers:       domain.SubmittedAnswers(m.Answers),
		ResponseSheet: sheet,
		CreatedAt:     m.CreatedAt,
	}
}

func fromDomainAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	sheet := make(models.ResponseSheet, len(a.ResponseSheet))
	for i, e := range a.ResponseSheet {
		sheet[i] = models.ResponseSheetEntry{
			QuestionID:    e.QuestionID,
			QuestionText:  e.QuestionText,
			Options:       e.Options,
			CorrectAnswer: e.CorrectAnswer,
			UserAnswer:    e.UserAnswer,
			IsCorrect:     e.IsCorrect,
			Marks:         e.Marks,
			ScoredMarks:   e.ScoredMarks,
		}
	}
	m := &models.QuizAttempt{
		ID:            a.ID,
		QuizID:        a.QuizID,
		UserID:        a.UserID,
		Score:         a.Score,
		StartedAt:     a.StartedAt,
		Answers:       models.JSONMap(a.Answers),
		ResponseSheet: sheet,
		CreatedAt:     a.CreatedAt,
	}
	if a.CompletedAt != nil {
		m.CompletedAt = util.TimeToNullTime(*a.CompletedAt)
	}
	return m
}

const attemptColumns = `id, quiz_id, user_id, score, started_at, completed_at, answers, response_sheet, created_at`

// CreateAttempt appends a new attempt to the ledger.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainAttempt(attempt)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, quiz_id, user_id, score, started_at, completed_at, answers, response_sheet, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.QuizID, m.UserID, m.Score, m.StartedAt, m.CompletedAt, m.Answers, m.ResponseSheet, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quiz attempt: %w", err)
	}
	return nil
}

func (r *sqlxAttemptRepository) GetAttemptByID(ctx context.Context, id string) (*domain.QuizAttempt, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.QuizAttempt
	err := exec.GetContext(ctx, &row, `SELECT `+attemptColumns+` FROM quiz_attempts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt %s: %w", id, err)
	}
	return toDomainAttempt(&row), nil
}

func (r *sqlxAttemptRepository) GetAttemptsByUser(ctx context.Context, userID string, limit int) ([]*domain.QuizAttempt, error) {
	exec := GetExecutor(ctx, r.db)
	if limit <= 0 {
		limit = 10
	}
	var rows []models.QuizAttempt
	err := exec.SelectContext(ctx, &rows,
		`SELECT `+attemptColumns+` FROM quiz_attempts WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select attempts for user %s: %w", userID, err)
	}
	return toDomainAttempts(rows), nil
}

func (r *sqlxAttemptRepository) GetAttemptsByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.QuizAttempt, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.QuizAttempt
	err := exec.SelectContext(ctx, &rows,
		`SELECT `+attemptColumns+` FROM quiz_attempts WHERE user_id = ? AND created_at >= ? ORDER BY created_at`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select attempts for user %s: %w", userID, err)
	}
	return toDomainAttempts(rows), nil
}

type attemptHistoryRow struct {
	AttemptID   string    `db:"attempt_id"`
	QuizID      string    `db:"quiz_id"`
	QuizTitle   string    `db:"quiz_title"`
	ChapterName string    `db:"chapter_name"`
	SubjectName string    `db:"subject_name"`
	Score       float64   `db:"score"`
	CreatedAt   time.Time `db:"created_at"`
}

// AttemptHistory lists every attempt of a user, newest first, with the quiz,
// chapter and subject names joined on.
func (r *sqlxAttemptRepository) AttemptHistory(ctx context.Context, userID string) ([]domain.AttemptHistoryRow, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []attemptHistoryRow
	err := exec.SelectContext(ctx, &rows,
		`SELECT a.id AS attempt_id, a.quiz_id AS quiz_id, q.title AS quiz_title,
			c.name AS chapter_name, s.name AS subject_name,
			a.score AS score, a.created_at AS created_at
		 FROM quiz_attempts a
		 JOIN quizzes q ON q.id = a.quiz_id
		 JOIN chapters c ON c.id = q.chapter_id
		 JOIN subjects s ON s.id = c.subject_id
		 WHERE a.user_id = ?
		 ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attempt history for user %s: %w", userID, err)
	}
	out := make([]domain.AttemptHistoryRow, len(rows))
	for i, row := range rows {
		out[i] = domain.AttemptHistoryRow{
			AttemptID:   row.AttemptID,
			QuizID:      row.QuizID,
			QuizTitle:   row.QuizTitle,
			ChapterName: row.ChapterName,
			SubjectName: row.SubjectName,
			Score:       row.Score,
			CreatedAt:   row.CreatedAt,
		}
	}
	return out, nil
}

func toDomainAttempts(rows []models.QuizAttempt) []*domain.QuizAttempt {
	attempts := make([]*domain.QuizAttempt, len(rows))
	for i := range rows {
		attempts[i] = toDomainAttempt(&rows[i])
	}
	return attempts
}

// DeleteByQuizID purges all attempts of a quiz. It is the first step of the
// quiz delete cascade and must run before the questions are removed.
func (r *sqlxAttemptRepository) DeleteByQuizID(ctx context.Context, quizID string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM quiz_attempts WHERE quiz_id = ?`, quizID); err != nil {
		return fmt.Errorf("failed to delete attempts for quiz %s: %w", quizID, err)
	}
	return nil
}

// attemptFilterSQL renders the join and where fragments of a report filter
// over quiz_attempts aliased as a. ChapterID wins over SubjectID.
func attemptFilterSQL(filter domain.ReportFilter) (string, []interface{}) {
	var tail string
	var conds []string
	var args []interface{}
	if filter.ChapterID != "" {
		tail = ` JOIN quizzes q ON q.id = a.quiz_id`
		conds = append(conds, "q.chapter_id = ?")
		args = append(args, filter.ChapterID)
	} else if filter.SubjectID != "" {
		tail = ` JOIN quizzes q ON q.id = a.quiz_id JOIN chapters c ON c.id = q.chapter_id`
		conds = append(conds, "c.subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.Since != nil {
		conds = append(conds, "a.created_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conds = append(conds, "a.created_at < ?")
		args = append(args, *filter.Until)
	}
	if len(conds) > 0 {
		tail += " WHERE " + strings.Join(conds, " AND ")
	}
	return tail, args
}

func (r *sqlxAttemptRepository) CountAttempts(ctx context.Context, filter domain.ReportFilter) (int, error) {
	exec := GetExecutor(ctx, r.db)
	tail, args := attemptFilterSQL(filter)
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM quiz_attempts a`+tail, args...); err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count, nil
}

func (r *sqlxAttemptRepository) AverageScore(ctx context.Context, filter domain.ReportFilter) (float64, error) {
	exec := GetExecutor(ctx, r.db)
	tail, args := attemptFilterSQL(filter)
	var avg sql.NullFloat64
	if err := exec.GetContext(ctx, &avg, `SELECT AVG(a.score) FROM quiz_attempts a`+tail, args...); err != nil {
		return 0, fmt.Errorf("failed to compute average score: %w", err)
	}
	return avg.Float64, nil
}

func (r *sqlxAttemptRepository) AverageScoreByUser(ctx context.Context, userID string) (float64, error) {
	exec := GetExecutor(ctx, r.db)
	var avg sql.NullFloat64
	if err := exec.GetContext(ctx, &avg, `SELECT AVG(score) FROM quiz_attempts WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to compute average score for user %s: %w", userID, err)
	}
	return avg.Float64, nil
}

func (r *sqlxAttemptRepository) CountAttemptsByUser(ctx context.Context, userID string) (int, error) {
	exec := GetExecutor(ctx, r.db)
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM quiz_attempts WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to count attempts for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *sqlxAttemptRepository) CountDistinctUsers(ctx context.Context, filter domain.ReportFilter) (int, error) {
	exec := GetExecutor(ctx, r.db)
	tail, args := attemptFilterSQL(filter)
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(DISTINCT a.user_id) FROM quiz_attempts a`+tail, args...); err != nil {
		return 0, fmt.Errorf("failed to count distinct users: %w", err)
	}
	return count, nil
}

type dailyActivityRow struct {
	Date     string  `db:"day"`
	AvgScore float64 `db:"avg_score"`
	Attempts int     `db:"attempts"`
}

// DailyActivity groups attempts by calendar day within the filter's bounds.
// Days with no attempts are absent here; the report service fills the gaps.
func (r *sqlxAttemptRepository) DailyActivity(ctx context.Context, filter domain.ReportFilter) ([]domain.DailyActivity, error) {
	exec := GetExecutor(ctx, r.db)
	tail, args := attemptFilterSQL(filter)
	var rows []dailyActivityRow
	err := exec.SelectContext(ctx, &rows,
		`SELECT date(a.created_at) AS day, AVG(a.score) AS avg_score, COUNT(a.id) AS attempts
		 FROM quiz_attempts a`+tail+`
		 GROUP BY date(a.created_at)
		 ORDER BY day`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select daily activity: %w", err)
	}
	out := make([]domain.DailyActivity, len(rows))
	for i, row := range rows {
		out[i] = domain.DailyActivity{Date: row.Date, AvgScore: row.AvgScore, Attempts: row.Attempts}
	}
	return out, nil
}

type quizActivityRow struct {
	QuizID   string  `db:"quiz_id"`
	Title    string  `db:"title"`
	Attempts int     `db:"attempts"`
	AvgScore float64 `db:"avg_score"`
	PassRate float64 `db:"pass_rate"`
}

// QuizActivity aggregates count, average and pass rate per quiz. The pass
// threshold is bound as a parameter so domain.PassThreshold stays the single
// source of truth.
func (r *sqlxAttemptRepository) QuizActivity(ctx context.Context, filter domain.ReportFilter) ([]domain.QuizActivity, error) {
	exec := GetExecutor(ctx, r.db)
	query := `SELECT q.id AS quiz_id, q.title AS title,
		COUNT(a.id) AS attempts,
		COALESCE(AVG(a.score), 0) AS avg_score,
		COALESCE(SUM(CASE WHEN a.score >= ? THEN 1 ELSE 0 END) * 100.0 / COUNT(a.id), 0) AS pass_rate
		FROM quizzes q JOIN quiz_attempts a ON a.quiz_id = q.id`
	args := []interface{}{domain.PassThreshold}
	var conds []string
	if filter.ChapterID != "" {
		conds = append(conds, "q.chapter_id = ?")
		args = append(args, filter.ChapterID)
	} else if filter.SubjectID != "" {
		query += ` JOIN chapters c ON c.id = q.chapter_id`
		conds = append(conds, "c.subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.Since != nil {
		conds = append(conds, "a.created_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conds = append(conds, "a.created_at < ?")
		args = append(args, *filter.Until)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` GROUP BY q.id, q.title ORDER BY attempts DESC`

	var rows []quizActivityRow
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select quiz activity: %w", err)
	}
	out := make([]domain.QuizActivity, len(rows))
	for i, row := range rows {
		out[i] = domain.QuizActivity{
			QuizID:   row.QuizID,
			Title:    row.Title,
			Attempts: row.Attempts,
			AvgScore: row.AvgScore,
			PassRate: row.PassRate,
		}
	}
	return out, nil
}

type leaderboardRow struct {
	UserID   string  `db:"user_id"`
	Username string  `db:"username"`
	AvgScore float64 `db:"avg_score"`
}

// TopUsersByAverageScore ranks users by average score across all attempts,
// descending, ties broken by user id ascending.
func (r *sqlxAttemptRepository) TopUsersByAverageScore(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []leaderboardRow
	err := exec.SelectContext(ctx, &rows,
		`SELECT u.id AS user_id, u.username AS username, AVG(a.score) AS avg_score
		 FROM users u JOIN quiz_attempts a ON a.user_id = u.id
		 GROUP BY u.id, u.username
		 ORDER BY avg_score DESC, u.id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select leaderboard: %w", err)
	}
	out := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		out[i] = domain.LeaderboardEntry{UserID: row.UserID, Username: row.Username, AvgScore: row.AvgScore}
	}
	return out, nil
}

type exportRow struct {
	Username  string    `db:"username"`
	QuizTitle string    `db:"title"`
	Score     float64   `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// AttemptsForExport joins usernames and quiz titles onto attempts since the
// given time, one row per attempt, for the analytics export job.
func (r *sqlxAttemptRepository) AttemptsForExport(ctx context.Context, since time.Time) ([]domain.AttemptExportRow, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []exportRow
	err := exec.SelectContext(ctx, &rows,
		`SELECT u.username AS username, q.title AS title, a.score AS score, a.created_at AS created_at
		 FROM quiz_attempts a
		 JOIN users u ON u.id = a.user_id
		 JOIN quizzes q ON q.id = a.quiz_id
		 WHERE a.created_at >= ?
		 ORDER BY a.created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select attempts for export: %w", err)
	}
	out := make([]domain.AttemptExportRow, len(rows))
	for i, row := range rows {
		out[i] = domain.AttemptExportRow{
			Username:  row.Username,
			QuizTitle: row.QuizTitle,
			Score:     row.Score,
			Date:      row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return out, nil
}

// FindInactiveUsers selects distinct users having at least one attempt older
// than the cutoff. Users with no attempts at all are not selected; this
// mirrors the reminder job's historical join semantics.
func (r *sqlxAttemptRepository) FindInactiveUsers(ctx context.Context, cutoff time.Time) ([]*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.User
	err := exec.SelectContext(ctx, &rows,
		`SELECT DISTINCT u.id, u.username, u.email, u.password_hash, u.active, u.created_at
		 FROM users u JOIN quiz_attempts a ON a.user_id = u.id
		 WHERE a.created_at < ?
		 ORDER BY u.id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select inactive users: %w", err)
	}
	users := make([]*domain.User, len(rows))
	for i := range rows {
		users[i] = toDomainUser(&rows[i], nil)
	}
	return users, nil
}
