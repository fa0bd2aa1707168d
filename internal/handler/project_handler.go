package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tdt-go-api/internal/dto"
	"github.com/noah-isme/tdt-go-api/internal/permission"
	"github.com/noah-isme/tdt-go-api/internal/service"
	"github.com/noah-isme/tdt-go-api/internal/utils"
)

// ProjectHandler wires project, membership, stack and feedback routes.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register attaches project endpoints to the router group.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)

	router.Post("/:id/students", h.addMember(h.service.AddStudent))
	router.Delete("/:id/students/:userId", h.removeMember(h.service.RemoveStudent))
	router.Post("/:id/supervisors", h.addMember(h.service.AddSupervisor))
	router.Delete("/:id/supervisors/:userId", h.removeMember(h.service.RemoveSupervisor))

	router.Get("/:id/feedback", h.listFeedback)
	router.Post("/:id/feedback", h.addFeedback)
	router.Get("/:id/stack", h.getStack)
	router.Put("/:id/stack", h.putStack)
}

type membershipFunc func(ctx context.Context, actor permission.Actor, projectID, userID uint) (dto.ProjectResponse, error)

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.List(c.UserContext(), actorFromContext(c), dto.ProjectListRequest{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}

	return utils.OK(c, result.Items, "projects retrieved", result.Pagination)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	project, err := h.service.Get(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}

	project, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project created", project)
}

func (h *ProjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.ProjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}

	project, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "project updated", project)
}

func (h *ProjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "project deleted", nil)
}

func (h *ProjectHandler) addMember(apply membershipFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := parseUintParam(c, "id")
		if err != nil {
			return badRequest(c, err.Error())
		}

		var payload dto.MemberAddRequest
		if err := c.BodyParser(&payload); err != nil || payload.UserID == 0 {
			return badRequest(c, "user_id is required")
		}

		project, err := apply(c.UserContext(), actorFromContext(c), projectID, payload.UserID)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		return utils.SendSuccess(c, "member added", project)
	}
}

func (h *ProjectHandler) removeMember(apply membershipFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := parseUintParam(c, "id")
		if err != nil {
			return badRequest(c, err.Error())
		}
		userID, err := parseUintParam(c, "userId")
		if err != nil {
			return badRequest(c, err.Error())
		}

		project, err := apply(c.UserContext(), actorFromContext(c), projectID, userID)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		return utils.SendSuccess(c, "member removed", project)
	}
}

func (h *ProjectHandler) listFeedback(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	feedback, err := h.service.ListFeedback(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "feedback retrieved", feedback)
}

func (h *ProjectHandler) addFeedback(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.FeedbackCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, err := h.service.AddFeedback(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback added", entry)
}

func (h *ProjectHandler) getStack(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	stack, err := h.service.GetStack(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "stack retrieved", stack)
}

func (h *ProjectHandler) putStack(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.StackRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}

	stack, err := h.service.PutStack(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "stack saved", stack)
}
