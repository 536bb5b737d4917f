package service

import (
	"context"
	"fmt"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/util"

	"go.uber.org/zap"
)

// CatalogService manages the subject/chapter hierarchy quizzes hang off.
type CatalogService interface {
	GetSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	GetSubject(ctx context.Context, id string) (*dto.SubjectResponse, error)
	CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	UpdateSubject(ctx context.Context, id string, req dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id string) error

	GetChapters(ctx context.Context, subjectID string) ([]dto.ChapterResponse, error)
	CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*dto.ChapterResponse, error)
	UpdateChapter(ctx context.Context, id string, req dto.UpdateChapterRequest) (*dto.ChapterResponse, error)
	DeleteChapter(ctx context.Context, id string) error
}

type catalogServiceImpl struct {
	subjectRepo  domain.SubjectRepository
	chapterRepo  domain.ChapterRepository
	quizRepo     domain.QuizRepository
	questionRepo domain.QuestionRepository
	attemptRepo  domain.AttemptRepository
	txManager    domain.TransactionManager
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	subjectRepo domain.SubjectRepository,
	chapterRepo domain.ChapterRepository,
	quizRepo domain.QuizRepository,
	questionRepo domain.QuestionRepository,
	attemptRepo domain.AttemptRepository,
	txManager domain.TransactionManager,
) CatalogService {
	return &catalogServiceImpl{
		subjectRepo:  subjectRepo,
		chapterRepo:  chapterRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		txManager:    txManager,
	}
}

func (s *catalogServiceImpl) GetSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjectRepo.GetAllSubjects(ctx)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list subjects: %w", err))
	}
	resp := make([]dto.SubjectResponse, 0, len(subjects))
	for _, sub := range subjects {
		count, err := s.subjectRepo.CountChapters(ctx, sub.ID)
		if err != nil {
			return nil, domain.NewInternalError(fmt.Errorf("failed to count chapters for subject %s: %w", sub.ID, err))
		}
		resp = append(resp, toSubjectResponse(sub, count))
	}
	return resp, nil
}

func (s *catalogServiceImpl) GetSubject(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, err := s.subjectRepo.GetSubjectByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject", id)
	}
	count, err := s.subjectRepo.CountChapters(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toSubjectResponse(subject, count)
	return &resp, nil
}

func (s *catalogServiceImpl) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := domain.NewSubject(req.Name, req.Description)
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	subject.ID = util.NewULID()
	if err := s.subjectRepo.SaveSubject(ctx, subject); err != nil {
		return nil, err
	}
	logger.Get().Info("subject created", zap.String("subjectID", subject.ID), zap.String("name", subject.Name))
	resp := toSubjectResponse(subject, 0)
	return &resp, nil
}

func (s *catalogServiceImpl) UpdateSubject(ctx context.Context, id string, req dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.subjectRepo.GetSubjectByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject", id)
	}
	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if err := s.subjectRepo.UpdateSubject(ctx, subject); err != nil {
		return nil, err
	}
	count, err := s.subjectRepo.CountChapters(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toSubjectResponse(subject, count)
	return &resp, nil
}

// DeleteSubject removes a subject and everything beneath it. Attempts carry
// no cascading foreign keys, so the delete order is fixed: attempts, then
// questions, then quizzes, then chapters, then the subject, all in one
// transaction.
func (s *catalogServiceImpl) DeleteSubject(ctx context.Context, id string) error {
	subject, err := s.subjectRepo.GetSubjectByID(ctx, id)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if subject == nil {
		return domain.NewNotFoundError("subject", id)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		chapters, err := s.chapterRepo.GetChaptersBySubject(txCtx, id)
		if err != nil {
			return err
		}
		for _, ch := range chapters {
			if err := s.deleteChapterTree(txCtx, ch.ID); err != nil {
				return err
			}
		}
		return s.subjectRepo.DeleteSubject(txCtx, id)
	})
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("failed to delete subject %s: %w", id, err))
	}
	logger.Get().Info("subject deleted", zap.String("subjectID", id))
	return nil
}

func (s *catalogServiceImpl) GetChapters(ctx context.Context, subjectID string) ([]dto.ChapterResponse, error) {
	subject, err := s.subjectRepo.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject", subjectID)
	}
	chapters, err := s.chapterRepo.GetChaptersBySubject(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := make([]dto.ChapterResponse, 0, len(chapters))
	for _, ch := range chapters {
		count, err := s.chapterRepo.CountQuizzes(ctx, ch.ID)
		if err != nil {
			return nil, domain.NewInternalError(err)
		}
		resp = append(resp, toChapterResponse(ch, count))
	}
	return resp, nil
}

func (s *catalogServiceImpl) CreateChapter(ctx context.Context, req dto.CreateChapterRequest) (*dto.ChapterResponse, error) {
	subject, err := s.subjectRepo.GetSubjectByID(ctx, req.SubjectID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject", req.SubjectID)
	}
	chapter := domain.NewChapter(req.SubjectID, req.Name, req.Description)
	if err := chapter.Validate(); err != nil {
		return nil, err
	}
	chapter.ID = util.NewULID()
	if err := s.chapterRepo.SaveChapter(ctx, chapter); err != nil {
		return nil, err
	}
	logger.Get().Info("chapter created", zap.String("chapterID", chapter.ID), zap.String("subjectID", chapter.SubjectID))
	resp := toChapterResponse(chapter, 0)
	return &resp, nil
}

func (s *catalogServiceImpl) UpdateChapter(ctx context.Context, id string, req dto.UpdateChapterRequest) (*dto.ChapterResponse, error) {
	chapter, err := s.chapterRepo.GetChapterByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter", id)
	}
	if req.Name != nil {
		chapter.Name = *req.Name
	}
	if req.Description != nil {
		chapter.Description = *req.Description
	}
	if err := chapter.Validate(); err != nil {
		return nil, err
	}
	if err := s.chapterRepo.UpdateChapter(ctx, chapter); err != nil {
		return nil, err
	}
	count, err := s.chapterRepo.CountQuizzes(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	resp := toChapterResponse(chapter, count)
	return &resp, nil
}

func (s *catalogServiceImpl) DeleteChapter(ctx context.Context, id string) error {
	chapter, err := s.chapterRepo.GetChapterByID(ctx, id)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if chapter == nil {
		return domain.NewNotFoundError("chapter", id)
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.deleteChapterTree(txCtx, id)
	})
	if err != nil {
		return domain.NewInternalError(fmt.Errorf("failed to delete chapter %s: %w", id, err))
	}
	logger.Get().Info("chapter deleted", zap.String("chapterID", id))
	return nil
}

// deleteChapterTree removes a chapter and its quizzes. Must run inside a
// transaction started by the caller.
func (s *catalogServiceImpl) deleteChapterTree(ctx context.Context, chapterID string) error {
	quizzes, err := s.quizRepo.GetQuizzesByChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	for _, q := range quizzes {
		if err := s.attemptRepo.DeleteByQuizID(ctx, q.ID); err != nil {
			return err
		}
		if err := s.questionRepo.DeleteByQuizID(ctx, q.ID); err != nil {
			return err
		}
		if err := s.quizRepo.DeleteQuiz(ctx, q.ID); err != nil {
			return err
		}
	}
	return s.chapterRepo.DeleteChapter(ctx, chapterID)
}

func toSubjectResponse(s *domain.Subject, chapterCount int) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		ChaptersCount: chapterCount,
	}
}

func toChapterResponse(c *domain.Chapter, quizCount int) dto.ChapterResponse {
	return dto.ChapterResponse{
		ID:           c.ID,
		SubjectID:    c.SubjectID,
		Name:         c.Name,
		Description:  c.Description,
		QuizzesCount: quizCount,
	}
}
