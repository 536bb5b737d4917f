package handler

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/service"
	"quiz-master/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles subject and chapter management requests
type CatalogHandler struct {
	service   service.CatalogService
	validator *validation.Validator
}

// NewCatalogHandler creates a new CatalogHandler instance
func NewCatalogHandler(service service.CatalogService, validator *validation.Validator) *CatalogHandler {
	return &CatalogHandler{service: service, validator: validator}
}

// GetSubjects handles GET /api/admin/subjects
func (h *CatalogHandler) GetSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.GetSubjects(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(subjects)
}

// GetSubject handles GET /api/admin/subjects/:id
func (h *CatalogHandler) GetSubject(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	subject, err := h.service.GetSubject(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(subject)
}

// CreateSubject handles POST /api/admin/subjects
func (h *CatalogHandler) CreateSubject(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	subject, err := h.service.CreateSubject(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(subject)
}

// UpdateSubject handles PUT /api/admin/subjects/:id
func (h *CatalogHandler) UpdateSubject(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	var req dto.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	subject, err := h.service.UpdateSubject(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(subject)
}

// DeleteSubject handles DELETE /api/admin/subjects/:id
func (h *CatalogHandler) DeleteSubject(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	if err := h.service.DeleteSubject(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "subject deleted"})
}

// GetChapters handles GET /api/admin/subjects/:id/chapters
func (h *CatalogHandler) GetChapters(c *fiber.Ctx) error {
	subjectID := c.Params("id")
	if err := h.validator.ValidateID("id", subjectID); err != nil {
		return err
	}
	chapters, err := h.service.GetChapters(c.Context(), subjectID)
	if err != nil {
		return err
	}
	return c.JSON(chapters)
}

// CreateChapter handles POST /api/admin/chapters
func (h *CatalogHandler) CreateChapter(c *fiber.Ctx) error {
	var req dto.CreateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	chapter, err := h.service.CreateChapter(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(chapter)
}

// UpdateChapter handles PUT /api/admin/chapters/:id
func (h *CatalogHandler) UpdateChapter(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	var req dto.UpdateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	chapter, err := h.service.UpdateChapter(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(chapter)
}

// DeleteChapter handles DELETE /api/admin/chapters/:id
func (h *CatalogHandler) DeleteChapter(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	if err := h.service.DeleteChapter(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "chapter deleted"})
}
