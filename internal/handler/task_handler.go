package handler

import (
	"quiz-master/internal/dto"
	"quiz-master/internal/scheduler"
	"quiz-master/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler exposes manual job triggers and status polling
type TaskHandler struct {
	dispatcher *scheduler.Dispatcher
	validator  *validation.Validator
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(dispatcher *scheduler.Dispatcher, validator *validation.Validator) *TaskHandler {
	return &TaskHandler{dispatcher: dispatcher, validator: validator}
}

// TriggerTask handles POST /api/admin/tasks/:name/trigger
func (h *TaskHandler) TriggerTask(c *fiber.Ctx) error {
	jobName := c.Params("name")
	taskID, err := h.dispatcher.Trigger(c.Context(), jobName)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.TriggerTaskResponse{
		TaskID:  taskID,
		JobName: jobName,
		Message: "task queued",
	})
}

// GetTaskStatus handles GET /api/admin/tasks/status/:id
func (h *TaskHandler) GetTaskStatus(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if err := h.validator.ValidateID("id", taskID); err != nil {
		return err
	}
	status, err := h.dispatcher.Poll(c.Context(), taskID)
	if err != nil {
		return err
	}
	resp := dto.TaskStatusResponse{
		TaskID:  status.TaskID,
		JobName: status.JobName,
		State:   status.State,
	}
	switch status.State {
	case scheduler.StateSuccess:
		resp.Info = status.Result
	case scheduler.StateFailure:
		resp.Info = status.Error
	}
	return c.JSON(resp)
}
