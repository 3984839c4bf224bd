package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/anissawilliams/ai-crew-tutor/middleware"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type LeaderboardHandler struct {
	progressSvc ProgressServiceInterface
}

func NewLeaderboardHandler(progressSvc ProgressServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		progressSvc: progressSvc,
	}
}

// @Summary Get Leaderboard
// @Description Get learners ranked by total XP
// @Tags leaderboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Failure 503 {object} shared.Response
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := shared.DefaultLeaderboardLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= shared.MaxLeaderboardLimit {
			limit = parsed
		}
	}

	leaderboard, err := h.progressSvc.Leaderboard(c.UserContext(), middleware.UserID(c), limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
