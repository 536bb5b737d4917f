package handler

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/service"
	"quiz-master/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz and question management requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{service: service, validator: validator}
}

// GetQuizzes handles GET /api/admin/chapters/:id/quizzes
func (h *QuizHandler) GetQuizzes(c *fiber.Ctx) error {
	chapterID := c.Params("id")
	if err := h.validator.ValidateID("id", chapterID); err != nil {
		return err
	}
	quizzes, err := h.service.GetQuizzesByChapter(c.Context(), chapterID)
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// GetQuiz handles GET /api/admin/quizzes/:id
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	quiz, err := h.service.GetQuiz(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// CreateQuiz handles POST /api/admin/quizzes
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	quiz, err := h.service.CreateQuiz(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// UpdateQuiz handles PUT /api/admin/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	quiz, err := h.service.UpdateQuiz(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// DeleteQuiz handles DELETE /api/admin/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	if err := h.service.DeleteQuiz(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "quiz deleted"})
}

// GetQuestions handles GET /api/admin/quizzes/:id/questions
func (h *QuizHandler) GetQuestions(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.validator.ValidateID("id", quizID); err != nil {
		return err
	}
	questions, err := h.service.GetQuestions(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// CreateQuestion handles POST /api/admin/questions
func (h *QuizHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := h.validator.ValidateCreateQuestionRequest(req); err != nil {
		return err
	}
	question, err := h.service.CreateQuestion(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion handles PUT /api/admin/questions/:id
func (h *QuizHandler) UpdateQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	var req dto.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	question, err := h.service.UpdateQuestion(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/admin/questions/:id
func (h *QuizHandler) DeleteQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	if err := h.service.DeleteQuestion(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "question deleted"})
}
