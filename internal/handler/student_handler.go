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
)

// StudentHandler manages roster and dashboard endpoints.
type StudentHandler struct {
	roster    service.RosterService
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewStudentHandler builds a student handler instance.
func NewStudentHandler(roster service.RosterService, dashboard service.DashboardService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		roster:    roster,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/me/dashboard", h.myDashboard)
	router.Patch("/:id/section", middleware.RequireRole(models.RoleAdmin), h.updateSection)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.roster.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "student added", student)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.roster.List(c.Context(), actorFromContext(c), c.Query("section"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) updateSection(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.StudentSectionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.roster.UpdateSection(c.Context(), id, payload.Section)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "section updated successfully", student)
}

func (h *StudentHandler) myDashboard(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", summary)
}

func (h *StudentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrStudentExists):
		return utils.SendError(c, fiber.StatusConflict, "student already exists")
	case errors.Is(err, service.ErrStudentsOnly):
		return utils.SendError(c, fiber.StatusForbidden, "only students can access their dashboard")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
