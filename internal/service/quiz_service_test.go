package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuizServiceForTest() (QuizService, *MockChapterRepository, *MockQuizRepository, *MockQuestionRepository, *MockAttemptRepository, *MockTransactionManager) {
	chapterRepo := new(MockChapterRepository)
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	attemptRepo := new(MockAttemptRepository)
	txManager := new(MockTransactionManager)
	svc := NewQuizService(chapterRepo, quizRepo, questionRepo, attemptRepo, txManager)
	return svc, chapterRepo, quizRepo, questionRepo, attemptRepo, txManager
}

func TestCreateQuiz_DerivesEndFromDuration(t *testing.T) {
	svc, chapterRepo, quizRepo, _, _, _ := newQuizServiceForTest()
	ctx := context.Background()

	chapterRepo.On("GetChapterByID", ctx, "ch1").Return(&domain.Chapter{ID: "ch1", SubjectID: "sub1", Name: "Algebra"}, nil)
	quizRepo.On("SaveQuiz", ctx, mock.AnythingOfType("*domain.Quiz")).Return(nil)

	resp, err := svc.CreateQuiz(ctx, dto.CreateQuizRequest{
		ChapterID: "ch1",
		Title:     "Linear Equations",
		Duration:  30,
		StartTime: "2026-03-01T09:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T09:00", resp.StartTime)
	assert.Equal(t, "2026-03-01T09:30", resp.EndTime)
	assert.NotEmpty(t, resp.ID)
	quizRepo.AssertExpectations(t)
}

func TestCreateQuiz_RejectsBadStartTime(t *testing.T) {
	svc, chapterRepo, _, _, _, _ := newQuizServiceForTest()
	ctx := context.Background()

	chapterRepo.On("GetChapterByID", ctx, "ch1").Return(&domain.Chapter{ID: "ch1"}, nil)

	_, err := svc.CreateQuiz(ctx, dto.CreateQuizRequest{
		ChapterID: "ch1",
		Title:     "Linear Equations",
		Duration:  30,
		StartTime: "yesterday",
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrValidation, domainErr.Code)
}

func TestUpdateQuiz_DurationChangeRecomputesEnd(t *testing.T) {
	svc, _, quizRepo, _, _, _ := newQuizServiceForTest()
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	quizRepo.On("GetQuizByID", ctx, "quiz1").Return(&domain.Quiz{
		ID: "quiz1", ChapterID: "ch1", Title: "Linear Equations",
		Duration: 30, StartTime: &start, EndTime: &end,
	}, nil)
	quizRepo.On("UpdateQuiz", ctx, mock.AnythingOfType("*domain.Quiz")).Return(nil)
	quizRepo.On("CountQuestions", ctx, "quiz1").Return(2, nil)

	newDuration := 60
	resp, err := svc.UpdateQuiz(ctx, "quiz1", dto.UpdateQuizRequest{Duration: &newDuration})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.Duration)
	assert.Equal(t, "2026-03-01T09:00", resp.StartTime)
	assert.Equal(t, "2026-03-01T10:00", resp.EndTime)
}

func TestUpdateQuiz_StartChangeAppliedBeforeEndRecompute(t *testing.T) {
	svc, _, quizRepo, _, _, _ := newQuizServiceForTest()
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	quizRepo.On("GetQuizByID", ctx, "quiz1").Return(&domain.Quiz{
		ID: "quiz1", ChapterID: "ch1", Title: "Linear Equations",
		Duration: 30, StartTime: &start, EndTime: &end,
	}, nil)
	quizRepo.On("UpdateQuiz", ctx, mock.AnythingOfType("*domain.Quiz")).Return(nil)
	quizRepo.On("CountQuestions", ctx, "quiz1").Return(0, nil)

	newStart := "2026-03-02T14:00"
	resp, err := svc.UpdateQuiz(ctx, "quiz1", dto.UpdateQuizRequest{StartTime: &newStart})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02T14:00", resp.StartTime)
	assert.Equal(t, "2026-03-02T14:30", resp.EndTime)
}

func TestDeleteQuiz_CascadeOrder(t *testing.T) {
	svc, _, quizRepo, questionRepo, attemptRepo, txManager := newQuizServiceForTest()
	ctx := context.Background()

	quizRepo.On("GetQuizByID", ctx, "quiz1").Return(&domain.Quiz{ID: "quiz1", ChapterID: "ch1", Title: "T"}, nil)
	txManager.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)

	var order []string
	attemptRepo.On("DeleteByQuizID", ctx, "quiz1").Run(func(args mock.Arguments) {
		order = append(order, "attempts")
	}).Return(nil)
	questionRepo.On("DeleteByQuizID", ctx, "quiz1").Run(func(args mock.Arguments) {
		order = append(order, "questions")
	}).Return(nil)
	quizRepo.On("DeleteQuiz", ctx, "quiz1").Run(func(args mock.Arguments) {
		order = append(order, "quiz")
	}).Return(nil)

	err := svc.DeleteQuiz(ctx, "quiz1")

	require.NoError(t, err)
	assert.Equal(t, []string{"attempts", "questions", "quiz"}, order)
}

func TestDeleteQuiz_RollsBackOnFailure(t *testing.T) {
	svc, _, quizRepo, questionRepo, attemptRepo, txManager := newQuizServiceForTest()
	ctx := context.Background()

	quizRepo.On("GetQuizByID", ctx, "quiz1").Return(&domain.Quiz{ID: "quiz1"}, nil)
	txManager.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	attemptRepo.On("DeleteByQuizID", ctx, "quiz1").Return(nil)
	questionRepo.On("DeleteByQuizID", ctx, "quiz1").Return(errors.New("disk failure"))

	err := svc.DeleteQuiz(ctx, "quiz1")

	require.Error(t, err)
	quizRepo.AssertNotCalled(t, "DeleteQuiz", ctx, "quiz1")
}

func TestDeleteQuiz_NotFound(t *testing.T) {
	svc, _, quizRepo, _, _, _ := newQuizServiceForTest()
	ctx := context.Background()

	quizRepo.On("GetQuizByID", ctx, "missing").Return(nil, nil)

	err := svc.DeleteQuiz(ctx, "missing")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
}

func TestCreateQuestion_ValidatesAnswerIndex(t *testing.T) {
	svc, _, quizRepo, _, _, _ := newQuizServiceForTest()
	ctx := context.Background()

	quizRepo.On("GetQuizByID", ctx, "quiz1").Return(&domain.Quiz{ID: "quiz1"}, nil)

	_, err := svc.CreateQuestion(ctx, dto.CreateQuestionRequest{
		QuizID:        "quiz1",
		QuestionText:  "1+1?",
		Options:       []string{"1", "2"},
		CorrectAnswer: 5,
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrValidation, domainErr.Code)
}
