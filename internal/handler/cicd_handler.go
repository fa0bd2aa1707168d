package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tdt-go-api/internal/service"
	"github.com/noah-isme/tdt-go-api/internal/utils"
)

const defaultGenerationLimit = 20

// CICDHandler exposes pipeline generation, history and artifact export.
type CICDHandler struct {
	service service.CICDService
	logger  zerolog.Logger
}

// NewCICDHandler constructs the handler.
func NewCICDHandler(service service.CICDService, logger zerolog.Logger) *CICDHandler {
	return &CICDHandler{
		service: service,
		logger:  logger.With().Str("component", "cicd_handler").Logger(),
	}
}

// RegisterProjectRoutes attaches the project scoped endpoints. generateGuards run before generation.
func (h *CICDHandler) RegisterProjectRoutes(router fiber.Router, generateGuards ...fiber.Handler) {
	router.Post("/:id/generate-cicd", append(generateGuards, h.generate)...)
	router.Get("/:id/ai-generations", h.list)
}

// Register attaches the generation record endpoints.
func (h *CICDHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Post("/:id/export", h.export)
}

// generate always answers 201 with the stored record; provider failures surface as status "failed".
func (h *CICDHandler) generate(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	record, err := h.service.Generate(c.UserContext(), actorFromContext(c), projectID)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("project_id", projectID).
		Uint("generation_id", record.ID).
		Str("status", record.Status).
		Msg("ci/cd generation recorded")

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "ci/cd generation recorded", record)
}

func (h *CICDHandler) list(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return badRequest(c, "invalid limit")
	}
	if limit == 0 {
		limit = defaultGenerationLimit
	}

	records, err := h.service.List(c.UserContext(), actorFromContext(c), projectID, limit)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "ci/cd generations retrieved", records)
}

func (h *CICDHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	record, err := h.service.Get(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "ci/cd generation retrieved", record)
}

func (h *CICDHandler) export(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	record, err := h.service.Export(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "pipeline exported", record)
}
