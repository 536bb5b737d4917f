package handler

import (
	"quiz-master/internal/dto"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles the aggregate reporting endpoints
type ReportHandler struct {
	service service.ReportService
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func reportQuery(c *fiber.Ctx) dto.ReportQuery {
	return dto.ReportQuery{
		Window:    c.Query("window"),
		SubjectID: c.Query("subject_id"),
		ChapterID: c.Query("chapter_id"),
	}
}

// GetSummary handles GET /api/reports/summary
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.Context(), reportQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetQuizActivity handles GET /api/reports/quiz-activity
func (h *ReportHandler) GetQuizActivity(c *fiber.Ctx) error {
	activity, err := h.service.GetQuizActivity(c.Context(), reportQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(activity)
}

// GetTimeSeries handles GET /api/reports/time-series
func (h *ReportHandler) GetTimeSeries(c *fiber.Ctx) error {
	series, err := h.service.GetTimeSeries(c.Context(), reportQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(series)
}

// GetLeaderboard handles GET /api/reports/leaderboard
func (h *ReportHandler) GetLeaderboard(c *fiber.Ctx) error {
	board, err := h.service.GetLeaderboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(board)
}
