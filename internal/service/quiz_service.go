package service

import (
	"context"
	"fmt"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/util"

	"go.uber.org/zap"
)

// TimeLayout is the wire format for quiz start/end times.
const TimeLayout = "2006-01-02T15:04"

// QuizService manages quizzes and their questions on the admin surface.
type QuizService interface {
	GetQuizzesByChapter(ctx context.Context, chapterID string) ([]dto.QuizResponse, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
	CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, id string, req dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, id string) error

	GetQuestions(ctx context.Context, quizID string) ([]dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id string, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id string) error
}

type quizServiceImpl struct {
	chapterRepo  domain.ChapterRepository
	quizRepo     domain.QuizRepository
	questionRepo domain.QuestionRepository
	attemptRepo  domain.AttemptRepository
	txManager    domain.TransactionManager
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	chapterRepo domain.ChapterRepository,
	quizRepo domain.QuizRepository,
	questionRepo domain.QuestionRepository,
	attemptRepo domain.AttemptRepository,
	txManager domain.TransactionManager,
) QuizService {
	return &quizServiceImpl{
		chapterRepo:  chapterRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		txManager:    txManager,
	}
}

func (s *quizServiceImpl) GetQuizzesByChapter(ctx context.Context, chapterID string) ([]dto.QuizResponse, error) {
	chapter, err := s.chapterRepo.GetChapterByID(ctx, chapterID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter", chapterID)
	}
	quizzes, err := s.quizRepo.GetQuizzesByChapter(ctx, chapterID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	now := time.Now()
	resp := make([]dto.QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		count, err := s.quizRepo.CountQuestions(ctx, q.ID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		resp = append(resp, toQuizResponse(q, count, now))
	}
	return resp, nil
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", id)
	}
	count, err := s.quizRepo.CountQuestions(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toQuizResponse(quiz, count, time.Now())
	return &resp, nil
}

func (s *quizServiceImpl) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	chapter, err := s.chapterRepo.GetChapterByID(ctx, req.ChapterID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter", req.ChapterID)
	}

	var start *time.Time
	if req.StartTime != "" {
		t, err := time.Parse(TimeLayout, req.StartTime)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid start_time %q, expected %s", req.StartTime, TimeLayout))
		}
		start = &t
	}

	quiz := domain.NewQuiz(req.ChapterID, req.Title, req.Description, req.Duration, start)
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	quiz.ID = util.NewULID()
	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError(err)
	}
	logger.Get().Info("quiz created",
		zap.String("quizID", quiz.ID),
		zap.String("chapterID", quiz.ChapterID),
		zap.Int("duration", quiz.Duration))
	resp := toQuizResponse(quiz, 0, time.Now())
	return &resp, nil
}

// UpdateQuiz applies the partial update and recomputes the end time whenever
// the start time or the duration changed. The start change is applied first,
// then the end is derived from the effective duration.
func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, id string, req dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", id)
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}

	if req.StartTime != nil || req.Duration != nil {
		start := time.Now()
		if quiz.StartTime != nil {
			start = *quiz.StartTime
		}
		if req.StartTime != nil {
			t, err := time.Parse(TimeLayout, *req.StartTime)
			if err != nil {
				return nil, domain.NewValidationError(fmt.Sprintf("invalid start_time %q, expected %s", *req.StartTime, TimeLayout))
			}
			start = t
		}
		duration := quiz.Duration
		if req.Duration != nil {
			duration = *req.Duration
		}
		quiz.SetSchedule(start, duration)
	}

	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError(err)
	}
	count, err := s.quizRepo.CountQuestions(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toQuizResponse(quiz, count, time.Now())
	return &resp, nil
}

// DeleteQuiz removes a quiz and its dependents in one transaction. Order is
// fixed: attempts first, then questions, then the quiz row itself.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, id string) error {
	quiz, err := s.quizRepo.GetQuizByID(ctx, id)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if quiz == nil {
		return domain.NewNotFoundError("quiz", id)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attemptRepo.DeleteByQuizID(txCtx, id); err != nil {
			return err
		}
		if err := s.questionRepo.DeleteByQuizID(txCtx, id); err != nil {
			return err
		}
		return s.quizRepo.DeleteQuiz(txCtx, id)
	})
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("failed to delete quiz %s: %w", id, err))
	}
	logger.Get().Info("quiz deleted", zap.String("quizID", id))
	return nil
}

func (s *quizServiceImpl) GetQuestions(ctx context.Context, quizID string) ([]dto.QuestionResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", quizID)
	}
	questions, err := s.questionRepo.GetQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, toQuestionResponse(q, true))
	}
	return resp, nil
}

func (s *quizServiceImpl) CreateQuestion(ctx context.Context, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, req.QuizID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz", req.QuizID)
	}
	question := domain.NewQuestion(req.QuizID, req.QuestionText, req.Options, req.CorrectAnswer, req.Marks)
	if err := question.Validate(); err != nil {
		return nil, err
	}
	question.ID = util.NewULID()
	if err := s.questionRepo.SaveQuestion(ctx, question); err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toQuestionResponse(question, true)
	return &resp, nil
}

func (s *quizServiceImpl) UpdateQuestion(ctx context.Context, id string, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError("question", id)
	}
	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.Options != nil {
		question.Options = *req.Options
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Marks != nil {
		question.Marks = *req.Marks
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if err := s.questionRepo.UpdateQuestion(ctx, question); err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toQuestionResponse(question, true)
	return &resp, nil
}

func (s *quizServiceImpl) DeleteQuestion(ctx context.Context, id string) error {
	question, err := s.questionRepo.GetQuestionByID(ctx, id)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if question == nil {
		return domain.NewNotFoundError("question", id)
	}
	if err := s.questionRepo.DeleteQuestion(ctx, id); err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}

func toQuizResponse(q *domain.Quiz, questionCount int, now time.Time) dto.QuizResponse {
	resp := dto.QuizResponse{
		ID:             q.ID,
		ChapterID:      q.ChapterID,
		Title:          q.Title,
		Description:    q.Description,
		Duration:       q.Duration,
		Status:         string(q.StatusAt(now)),
		QuestionsCount: questionCount,
	}
	if q.StartTime != nil {
		resp.StartTime = q.StartTime.Format(TimeLayout)
	}
	if q.EndTime != nil {
		resp.EndTime = q.EndTime.Format(TimeLayout)
	}
	return resp
}

func toQuestionResponse(q *domain.Question, includeAnswer bool) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		Marks:        q.Marks,
	}
	if includeAnswer {
		answer := q.CorrectAnswer
		resp.CorrectAnswer = &answer
	}
	return resp
}
