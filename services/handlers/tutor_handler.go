package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/middleware"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type TutorHandler struct {
	tutorSvc TutorServiceInterface
}

func NewTutorHandler(tutorSvc TutorServiceInterface) *TutorHandler {
	return &TutorHandler{
		tutorSvc: tutorSvc,
	}
}

// @Summary Ask a question
// @Description Ask an unlocked persona a question. Awards 10 XP and 10 affinity on success.
// @Tags tutor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param askQuestionRequest body dto.AskQuestionRequest true "Question for the persona"
// @Success 200 {object} shared.Response{data=dto.ExplanationResponse}
// @Failure 403 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/tutor/questions [post]
func (h *TutorHandler) AskQuestion(c *fiber.Ctx) error {
	var req dto.AskQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.tutorSvc.AskQuestion(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Review code
// @Description Ask an unlocked persona to review a code snippet. Awards 15 XP and 15 affinity on success.
// @Tags tutor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewCodeRequest body dto.ReviewCodeRequest true "Code for the persona"
// @Success 200 {object} shared.Response{data=dto.ExplanationResponse}
// @Failure 403 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/tutor/reviews [post]
func (h *TutorHandler) ReviewCode(c *fiber.Ctx) error {
	var req dto.ReviewCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.tutorSvc.ReviewCode(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Rate an explanation
// @Description Append a rating to the log. Awards 5 XP and 5 affinity once the rating is stored.
// @Tags tutor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ratingRequest body dto.RatingRequest true "Rating"
// @Success 201 {object} shared.Response{data=dto.RatingResponse}
// @Failure 500 {object} shared.Response
// @Router /api/v1/ratings [post]
func (h *TutorHandler) SubmitRating(c *fiber.Ctx) error {
	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.tutorSvc.SubmitRating(middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Rating recorded", resp)
}
