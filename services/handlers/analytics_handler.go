package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type AnalyticsHandler struct {
	analyticsSvc AnalyticsServiceInterface
}

func NewAnalyticsHandler(analyticsSvc AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
	}
}

// @Summary Rating statistics
// @Description Aggregate the rating log overall and per persona
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=storage.RatingStats}
// @Router /api/v1/analytics/ratings [get]
func (h *AnalyticsHandler) GetRatingStats(c *fiber.Ctx) error {
	stats, err := h.analyticsSvc.Stats()
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, stats)
}

// @Summary Export ratings
// @Description Upload the rating log to object storage and return a presigned download URL
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 201 {object} shared.Response{data=dto.RatingExportResponse}
// @Failure 503 {object} shared.Response
// @Router /api/v1/analytics/ratings/export [post]
func (h *AnalyticsHandler) ExportRatings(c *fiber.Ctx) error {
	export, err := h.analyticsSvc.Export(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Ratings exported", export)
}
