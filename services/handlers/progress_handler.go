package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anissawilliams/ai-crew-tutor/middleware"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
	}
}

// @Summary Get progress
// @Description Get the learner's level, XP, streak, affinity and the next unlock. The first request of a session records the daily visit.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Failure 503 {object} shared.Response
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	progress, err := h.progressSvc.GetProgress(middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, progress)
}

// @Summary Record a visit
// @Description Apply today's visit to the streak. Repeated calls on the same day change nothing.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.VisitResponse}
// @Router /api/v1/progress/visit [post]
func (h *ProgressHandler) RecordVisit(c *fiber.Ctx) error {
	resp, err := h.progressSvc.RecordVisit(middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Visit recorded", resp)
}

// @Summary Pending rewards
// @Description List reward events waiting to be shown, oldest first
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.RewardsResponse}
// @Router /api/v1/rewards/pending [get]
func (h *ProgressHandler) PendingRewards(c *fiber.Ctx) error {
	rewards, err := h.progressSvc.PendingRewards(middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", rewards)
}

// @Summary Acknowledge reward
// @Description Dismiss the oldest pending reward and return the next one
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.AcknowledgeResponse}
// @Router /api/v1/rewards/ack [post]
func (h *ProgressHandler) AcknowledgeReward(c *fiber.Ctx) error {
	ack, err := h.progressSvc.AcknowledgeReward(middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Reward acknowledged", ack)
}
