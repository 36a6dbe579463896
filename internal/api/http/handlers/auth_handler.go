package handlers

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contacts-service/internal/api/dto"
	"github.com/spec-kit/contacts-service/internal/service"
	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 12
	minUsernameLen = 2
	maxUsernameLen = 50
)

// AuthHandler exposes the registration, login, confirmation, and reset
// endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateRegistration(req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, _, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// ConfirmEmail handles GET /api/auth/confirmed_email/:token.
func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	message, err := h.auth.ConfirmEmail(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

// RequestEmail handles POST /api/auth/request_email.
func (h *AuthHandler) RequestEmail(c *fiber.Ctx) error {
	var req dto.RequestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !validEmail(req.Email) {
		return apperrors.NewValidationError("valid email required", nil)
	}

	message, err := h.auth.RequestEmailConfirmation(c.Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

// ResetPassword handles POST /api/auth/reset_password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !validEmail(req.Email) {
		return apperrors.NewValidationError("valid email required", nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}

	message, err := h.auth.RequestPasswordReset(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

// ConfirmResetPassword handles GET /api/auth/confirm_reset_password/:token.
func (h *AuthHandler) ConfirmResetPassword(c *fiber.Ctx) error {
	message, err := h.auth.ConfirmPasswordReset(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

func validateRegistration(req dto.RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return apperrors.NewValidationError("username must be 2-50 characters", nil)
	}
	if !validEmail(req.Email) {
		return apperrors.NewValidationError("valid email required", nil)
	}
	return validatePassword(req.Password)
}

// Bounds count characters, not bytes, so non-ASCII passwords are not
// penalized for their encoding width.
func validatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < minPasswordLen || n > maxPasswordLen {
		return apperrors.NewValidationError("password must be 6-12 characters", nil)
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
