package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/middleware"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type PersonaHandler struct {
	progressSvc ProgressServiceInterface
}

func NewPersonaHandler(progressSvc ProgressServiceInterface) *PersonaHandler {
	return &PersonaHandler{
		progressSvc: progressSvc,
	}
}

// @Summary List personas
// @Description List every persona with its unlock state and the learner's affinity
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.PersonaListResponse}
// @Router /api/v1/personas [get]
func (h *PersonaHandler) ListPersonas(c *fiber.Ctx) error {
	personas, err := h.progressSvc.ListPersonas(middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", personas)
}

// @Summary Select persona
// @Description Make an unlocked persona the session's current tutor
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selectPersonaRequest body dto.SelectPersonaRequest true "Persona to select"
// @Success 200 {object} shared.Response{data=dto.PersonaView}
// @Failure 403 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/personas/select [post]
func (h *PersonaHandler) SelectPersona(c *fiber.Ctx) error {
	var req dto.SelectPersonaRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	view, err := h.progressSvc.SelectPersona(middleware.UserID(c), req.Persona)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Persona selected", view)
}

// @Summary Persona snippets
// @Description List a persona's code snippet collection. Snippets above the learner's affinity are returned without code.
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param name path string true "Persona name"
// @Success 200 {object} shared.Response{data=dto.SnippetCollectionResponse}
// @Failure 403 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/personas/{name}/snippets [get]
func (h *PersonaHandler) GetSnippets(c *fiber.Ctx) error {
	// Names such as "Iron Man" arrive escaped.
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return shared.NewBadRequestError(err, "Invalid persona name")
	}

	collection, err := h.progressSvc.GetSnippets(middleware.UserID(c), name)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", collection)
}
