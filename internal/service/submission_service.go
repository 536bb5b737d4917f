package service

import (
	"context"
	"fmt"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/notification"
	"quiz-master/internal/util"

	"go.uber.org/zap"
)

// SubmittedAtLayout is the wire format for the optional started_at field.
const SubmittedAtLayout = "2006-01-02T15:04:05"

const recentAttemptsLimit = 10

// SubmissionService is the student surface: browsing active quizzes,
// submitting answers and reviewing past attempts.
type SubmissionService interface {
	GetAvailableQuizzes(ctx context.Context) ([]dto.AvailableQuizResponse, error)
	GetQuizForStudent(ctx context.Context, quizID string) (*dto.StudentQuizDetailResponse, error)
	SubmitQuiz(ctx context.Context, userID, quizID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetStudentStats(ctx context.Context, userID string) (*dto.StudentStatsResponse, error)
	GetAttemptHistory(ctx context.Context, userID string) (*dto.AttemptHistoryResponse, error)
	GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptDetailResponse, error)
}

type submissionServiceImpl struct {
	quizRepo     domain.QuizRepository
	questionRepo domain.QuestionRepository
	attemptRepo  domain.AttemptRepository
	userRepo     domain.UserRepository
	chapterRepo  domain.ChapterRepository
	subjectRepo  domain.SubjectRepository
	notifier     domain.Notifier
	renderer     *notification.Renderer
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	quizRepo domain.QuizRepository,
	questionRepo domain.QuestionRepository,
	attemptRepo domain.AttemptRepository,
	userRepo domain.UserRepository,
	chapterRepo domain.ChapterRepository,
	subjectRepo domain.SubjectRepository,
	notifier domain.Notifier,
	renderer *notification.Renderer,
) SubmissionService {
	return &submissionServiceImpl{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		userRepo:     userRepo,
		chapterRepo:  chapterRepo,
		subjectRepo:  subjectRepo,
		notifier:     notifier,
		renderer:     renderer,
	}
}

func (s *submissionServiceImpl) GetAvailableQuizzes(ctx context.Context) ([]dto.AvailableQuizResponse, error) {
	now := time.Now()
	quizzes, err := s.quizRepo.GetActiveQuizzes(ctx, now)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list active quizzes: %w", err))
	}
	resp := make([]dto.AvailableQuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		item, err := s.toAvailableQuiz(ctx, q, now)
		if err != nil {
			return nil, err
		}
		resp = append(resp, *item)
	}
	return resp, nil
}

// GetQuizForStudent returns the quiz with its questions, correct answers
// stripped. Quizzes outside their window are rejected, not hidden behind a 404,
// so the client can tell "not yet open" from "does not exist".
func (s *submissionServiceImpl) GetQuizForStudent(ctx context.Context, quizID string) (*dto.StudentQuizDetailResponse, error) {
	now := time.Now()
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", quizID)
	}
	if !quiz.IsActiveAt(now) {
		return nil, domain.NewQuizNotAvailableError(quizID, string(quiz.StatusAt(now)))
	}

	head, err := s.toAvailableQuiz(ctx, quiz, now)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.GetQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	qs := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		qs = append(qs, toQuestionResponse(q, false))
	}
	return &dto.StudentQuizDetailResponse{AvailableQuizResponse: *head, Questions: qs}, nil
}

// SubmitQuiz gates on the quiz window, scores the answers, records the
// attempt and returns the scored response sheet. The completion mail is best
// effort; a delivery failure never fails the submission.
func (s *submissionServiceImpl) SubmitQuiz(ctx context.Context, userID, quizID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	now := time.Now()

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("unknown user")
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", quizID)
	}
	if !quiz.IsActiveAt(now) {
		return nil, domain.NewQuizNotAvailableError(quizID, string(quiz.StatusAt(now)))
	}

	questions, err := s.questionRepo.GetQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	result := domain.ScoreAttempt(questions, req.Answers)

	startedAt := now
	if req.StartedAt != "" {
		t, err := time.Parse(SubmittedAtLayout, req.StartedAt)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid started_at %q, expected %s", req.StartedAt, SubmittedAtLayout))
		}
		startedAt = t
	}

	attempt := domain.NewQuizAttempt(quizID, userID, result.Score, req.Answers, result.ResponseSheet, startedAt, now)
	attempt.ID = util.NewULID()
	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to record attempt: %w", err))
	}

	logger.Get().Info("quiz submitted",
		zap.String("attemptID", attempt.ID),
		zap.String("quizID", quizID),
		zap.String("userID", userID),
		zap.Float64("score", result.Score))

	s.sendCompletionMail(ctx, user, quiz, attempt, result)

	return &dto.SubmitQuizResponse{
		AttemptID:     attempt.ID,
		Score:         result.Score,
		TotalMarks:    result.TotalMarks,
		ScoredMarks:   result.ScoredMarks,
		ResponseSheet: result.ResponseSheet,
	}, nil
}

func (s *submissionServiceImpl) sendCompletionMail(ctx context.Context, user *domain.User, quiz *domain.Quiz, attempt *domain.QuizAttempt, result domain.ScoreResult) {
	correct := 0
	for _, entry := range result.ResponseSheet {
		if entry.IsCorrect {
			correct++
		}
	}
	timeTaken := 0.0
	if d := attempt.DurationMinutes(); d != nil {
		timeTaken = *d
	}
	msg, err := s.renderer.Completion(notification.CompletionData{
		Username:       user.Username,
		QuizTitle:      quiz.Title,
		Score:          result.Score,
		TimeTaken:      timeTaken,
		CorrectAnswers: correct,
		TotalQuestions: len(result.ResponseSheet),
	})
	if err != nil {
		logger.Get().Warn("failed to render completion mail", zap.Error(err), zap.String("attemptID", attempt.ID))
		return
	}
	if err := s.notifier.Send(ctx, user.Email, msg.Subject, msg.HTML, msg.Text); err != nil {
		logger.Get().Warn("failed to send completion mail",
			zap.Error(err),
			zap.String("attemptID", attempt.ID),
			zap.String("to", user.Email))
	}
}

func (s *submissionServiceImpl) GetStudentStats(ctx context.Context, userID string) (*dto.StudentStatsResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", userID)
	}

	total, err := s.attemptRepo.CountAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	avg, err := s.attemptRepo.AverageScoreByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	recent, err := s.attemptRepo.GetAttemptsByUser(ctx, userID, recentAttemptsLimit)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	summaries := make([]dto.AttemptSummary, 0, len(recent))
	for _, a := range recent {
		summary := dto.AttemptSummary{
			AttemptID: a.ID,
			QuizID:    a.QuizID,
			Score:     a.Score,
		}
		if a.CompletedAt != nil {
			summary.CompletedAt = a.CompletedAt.Format(SubmittedAtLayout)
		}
		summaries = append(summaries, summary)
	}
	return &dto.StudentStatsResponse{
		TotalAttempts:  total,
		AverageScore:   avg,
		RecentAttempts: summaries,
	}, nil
}

// GetAttemptHistory lists every attempt of the user, newest first, with
// aggregate stats over the full history.
func (s *submissionServiceImpl) GetAttemptHistory(ctx context.Context, userID string) (*dto.AttemptHistoryResponse, error) {
	rows, err := s.attemptRepo.AttemptHistory(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	entries := make([]dto.AttemptHistoryEntry, 0, len(rows))
	var totalScore float64
	passed := 0
	for _, row := range rows {
		totalScore += row.Score
		if row.Score >= domain.PassThreshold {
			passed++
		}
		entries = append(entries, dto.AttemptHistoryEntry{
			AttemptID:   row.AttemptID,
			QuizID:      row.QuizID,
			QuizTitle:   row.QuizTitle,
			ChapterName: row.ChapterName,
			SubjectName: row.SubjectName,
			Score:       row.Score,
			Date:        row.CreatedAt.Format(SubmittedAtLayout),
		})
	}

	stats := dto.AttemptHistoryStats{TotalAttempts: len(rows)}
	if len(rows) > 0 {
		stats.AverageScore = totalScore / float64(len(rows))
		stats.PassRate = float64(passed) * 100 / float64(len(rows))
	}
	return &dto.AttemptHistoryResponse{Attempts: entries, Stats: stats}, nil
}

// GetAttempt returns one attempt with its response sheet. Students can only
// read their own attempts.
func (s *submissionServiceImpl) GetAttempt(ctx context.Context, userID, attemptID string) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.attemptRepo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if attempt == nil {
		return nil, domain.NewNotFoundError("attempt", attemptID)
	}
	if attempt.UserID != userID {
		return nil, domain.NewUnauthorizedError("attempt belongs to another user")
	}

	resp := &dto.AttemptDetailResponse{
		AttemptID:       attempt.ID,
		QuizID:          attempt.QuizID,
		Score:           attempt.Score,
		StartedAt:       attempt.StartedAt.Format(SubmittedAtLayout),
		DurationMinutes: attempt.DurationMinutes(),
		Questions:       attempt.ResponseSheet,
	}
	if attempt.CompletedAt != nil {
		resp.CompletedAt = attempt.CompletedAt.Format(SubmittedAtLayout)
	}
	return resp, nil
}

func (s *submissionServiceImpl) toAvailableQuiz(ctx context.Context, q *domain.Quiz, now time.Time) (*dto.AvailableQuizResponse, error) {
	chapter, err := s.chapterRepo.GetChapterByID(ctx, q.ChapterID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	var subjectID, subjectName, chapterName string
	if chapter != nil {
		chapterName = chapter.Name
		subjectID = chapter.SubjectID
		subject, err := s.subjectRepo.GetSubjectByID(ctx, chapter.SubjectID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		if subject != nil {
			subjectName = subject.Name
		}
	}
	count, err := s.quizRepo.CountQuestions(ctx, q.ID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	resp := &dto.AvailableQuizResponse{
		ID:             q.ID,
		Title:          q.Title,
		Description:    q.Description,
		Duration:       q.Duration,
		ChapterID:      q.ChapterID,
		ChapterName:    chapterName,
		SubjectID:      subjectID,
		SubjectName:    subjectName,
		QuestionsCount: count,
		Status:         string(q.StatusAt(now)),
	}
	if q.StartTime != nil {
		resp.StartTime = q.StartTime.Format(TimeLayout)
	}
	if q.EndTime != nil {
		resp.EndTime = q.EndTime.Format(TimeLayout)
		remaining := int(q.EndTime.Sub(now).Minutes())
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingMinutes = remaining
	}
	return resp, nil
}
