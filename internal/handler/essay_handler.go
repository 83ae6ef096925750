package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/middleware"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/service"
	"github.com/noah-isme/essay-api/internal/utils"
	"github.com/noah-isme/essay-api/pkg/grader"
)

// EssayHandler manages essay submission and grading endpoints.
type EssayHandler struct {
	service service.EssayService
	logger  zerolog.Logger
}

// NewEssayHandler builds an essay handler instance.
func NewEssayHandler(service service.EssayService, logger zerolog.Logger) *EssayHandler {
	return &EssayHandler{
		service: service,
		logger:  logger.With().Str("component", "essay_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EssayHandler) Register(router fiber.Router) {
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)

	router.Post("/submit", h.submit)
	router.Post("/evaluate", staff, h.evaluate)
	router.Post("", staff, h.gradeDirect)
	router.Get("", staff, h.listAll)
	router.Get("/my-submissions", h.listMine)
	router.Get("/student/:roll", h.listByRoll)
	router.Get("/assignment/:id", staff, h.listByAssignment)
}

func (h *EssayHandler) submit(c *fiber.Ctx) error {
	var payload dto.EssaySubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	essay, err := h.service.Submit(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "assignment submitted successfully", essay)
}

func (h *EssayHandler) gradeDirect(c *fiber.Ctx) error {
	var payload dto.EssayGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	essay, err := h.service.GradeDirect(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "essay saved", essay)
}

func (h *EssayHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EssayEvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Evaluate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essay evaluated", result)
}

func (h *EssayHandler) listAll(c *fiber.Ctx) error {
	essays, err := h.service.ListAll(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essays retrieved", essays)
}

func (h *EssayHandler) listMine(c *fiber.Ctx) error {
	essays, err := h.service.ListMine(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", essays)
}

func (h *EssayHandler) listByRoll(c *fiber.Ctx) error {
	roll := c.Params("roll")
	if roll == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "roll is required")
	}

	essays, err := h.service.ListByRoll(c.Context(), actorFromContext(c), roll)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essays retrieved", essays)
}

func (h *EssayHandler) listByAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	essays, err := h.service.ListByAssignment(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essays retrieved", essays)
}

func (h *EssayHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrEssayNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "essay not found")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusConflict, "you have already submitted this assignment")
	case errors.Is(err, service.ErrSectionRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "section is required, please update your profile")
	case errors.Is(err, service.ErrPastDue):
		return utils.SendError(c, fiber.StatusBadRequest, "assignment is past due")
	case errors.Is(err, service.ErrSectionNotAllowed):
		return utils.SendError(c, fiber.StatusForbidden, "this assignment is not available for your section")
	case errors.Is(err, service.ErrStudentsOnly):
		return utils.SendError(c, fiber.StatusForbidden, "only students can perform this action")
	case errors.Is(err, service.ErrOwnSubmissionsOnly):
		return utils.SendError(c, fiber.StatusForbidden, "you can only view your own submissions")
	case errors.Is(err, grader.ErrUnavailable):
		return utils.SendError(c, fiber.StatusBadGateway, "scoring service unavailable, please try again later")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
