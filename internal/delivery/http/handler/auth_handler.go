package handler

import (
	"github.com/ev-station-service/internal/delivery/http/middleware"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/utils"
	"github.com/ev-station-service/internal/usecase"
	"github.com/ev-station-service/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler - регистрация, вход и профиль
type AuthHandler struct {
	authUC *usecase.AuthUseCase
	logger *zap.Logger
}

// NewAuthHandler - создание нового AuthHandler
func NewAuthHandler(authUC *usecase.AuthUseCase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		logger: logger,
	}
}

// Register godoc
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Registration"
// @Success 201 {object} utils.SuccessResponse{data=dto.AuthResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.authUC.Register(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} utils.SuccessResponse{data=dto.AuthResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.authUC.Login(c.Context(), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "Login successful", result)
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.UserEnvelope}
// @Failure 401 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	user, err := h.authUC.Me(c.Context(), actor.UserID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.UserEnvelope{User: user})
}

// UpdateProfile godoc
// @Summary Update name and/or email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} utils.SuccessResponse{data=dto.UserEnvelope}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/auth/me [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	user, err := h.authUC.UpdateProfile(c.Context(), actor.UserID, &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "Profile updated successfully", dto.UserEnvelope{User: user})
}

// ChangePassword godoc
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.ChangePasswordRequest true "Passwords"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.authUC.ChangePassword(c.Context(), actor.UserID, &req); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "Password changed successfully", fiber.Map{})
}
