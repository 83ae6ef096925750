package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/service"
	"github.com/noah-isme/essay-api/internal/utils"
)

// AuthHandler manages account and session endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated routes.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/forgot-password/question", h.securityQuestion)
	router.Post("/reset-password/question", h.resetPassword)
}

// RegisterProtected attaches the routes that require a session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
	router.Patch("/me/section", h.updateSection)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "user registered successfully", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", auth)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *AuthHandler) updateSection(c *fiber.Ctx) error {
	var payload dto.UpdateOwnSectionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.UpdateOwnSection(c.Context(), userIDFromContext(c), payload.Section)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "section updated successfully", user)
}

func (h *AuthHandler) securityQuestion(c *fiber.Ctx) error {
	var payload dto.SecurityQuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Email == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "email is required")
	}

	question, err := h.service.SecurityQuestion(c.Context(), payload.Email)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "security question retrieved", question)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.ResetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password has been reset successfully", nil)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid credentials")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrStudentsOnly):
		return utils.SendError(c, fiber.StatusForbidden, "only students can update their section")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
