package handler

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"
	"quiz-master/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// StudentHandler handles the student-facing quiz surface
type StudentHandler struct {
	service   service.SubmissionService
	validator *validation.Validator
}

// NewStudentHandler creates a new StudentHandler instance
func NewStudentHandler(service service.SubmissionService, validator *validation.Validator) *StudentHandler {
	return &StudentHandler{service: service, validator: validator}
}

// GetAvailableQuizzes handles GET /api/quizzes
func (h *StudentHandler) GetAvailableQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.GetAvailableQuizzes(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// GetQuiz handles GET /api/quizzes/:id
func (h *StudentHandler) GetQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	quiz, err := h.service.GetQuizForStudent(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// SubmitQuiz handles POST /api/quizzes/:id/submit
func (h *StudentHandler) SubmitQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.validator.ValidateID("id", quizID); err != nil {
		return err
	}
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := h.validator.ValidateSubmitQuizRequest(req); err != nil {
		return err
	}
	result, err := h.service.SubmitQuiz(c.Context(), middleware.UserID(c), quizID, req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetStats handles GET /api/students/me/stats
func (h *StudentHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStudentStats(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GetAttemptHistory handles GET /api/students/me/attempts
func (h *StudentHandler) GetAttemptHistory(c *fiber.Ctx) error {
	history, err := h.service.GetAttemptHistory(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

// GetAttempt handles GET /api/students/me/attempts/:id
func (h *StudentHandler) GetAttempt(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	attempt, err := h.service.GetAttempt(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(attempt)
}
