package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/service"
	"github.com/noah-isme/tdt-go-api/internal/utils"
)

// DeploymentHandler exposes per-project deployment records.
type DeploymentHandler struct {
	service service.DeploymentService
	logger  zerolog.Logger
}

// NewDeploymentHandler constructs the handler.
func NewDeploymentHandler(service service.DeploymentService, logger zerolog.Logger) *DeploymentHandler {
	return &DeploymentHandler{
		service: service,
		logger:  logger.With().Str("component", "deployment_handler").Logger(),
	}
}

// RegisterProjectRoutes attaches list and create under /projects.
func (h *DeploymentHandler) RegisterProjectRoutes(router fiber.Router) {
	router.Get("/:id/deployments", h.list)
	router.Post("/:id/deployments", h.create)
}

// Register attaches deployment record endpoints.
func (h *DeploymentHandler) Register(router fiber.Router) {
	router.Patch("/:id", h.finish)
}

func (h *DeploymentHandler) list(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	items, err := h.service.List(c.UserContext(), actorFromContext(c), projectID, strings.TrimSpace(c.Query("environment")))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "deployments retrieved", items)
}

func (h *DeploymentHandler) create(c *fiber.Ctx) error {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.DeploymentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}

	deployment, err := h.service.Create(c.UserContext(), actorFromContext(c), projectID, payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "deployment created", deployment)
}

func (h *DeploymentHandler) finish(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.DeploymentFinishRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}

	deployment, err := h.service.Finish(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "deployment finished", deployment)
}
