package handler

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/service"
	"quiz-master/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management requests
type UserHandler struct {
	service   service.UserService
	validator *validation.Validator
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(service service.UserService, validator *validation.Validator) *UserHandler {
	return &UserHandler{service: service, validator: validator}
}

// GetUsers handles GET /api/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUser handles GET /api/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	user, err := h.service.GetUser(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// CreateUser handles POST /api/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	user, err := h.service.CreateUser(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	user, err := h.service.UpdateUser(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "user deleted"})
}

// ToggleActive handles POST /api/admin/users/:id/toggle
func (h *UserHandler) ToggleActive(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID("id", id); err != nil {
		return err
	}
	user, err := h.service.ToggleActive(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
