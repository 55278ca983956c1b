package handlers

import (
	"time"

	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/session"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/filadex/filadex-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login, logout and password management routes.
type AuthHandler struct {
	Auth       *services.AuthService
	Sessions   *session.Manager
	SessionTTL time.Duration
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/auth/login
// @Summary Log in with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return types.Validation("Invalid request body")
	}

	user, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    h.Sessions.Issue(user.ID),
		MaxAge:   int(h.SessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   isForwardedHTTPS(c),
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":                user,
		"forceChangePassword": user.ForceChangePassword,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Log out and clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.MessageResponse(c, "Logged out")
}

// Me handles GET /api/auth/me
// @Summary Return the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(middleware.CurrentUser(c))
}

// ChangePassword handles POST /api/auth/change-password
// @Summary Change the authenticated user's password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body changePasswordRequest true "Passwords"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return types.Validation("Invalid request body")
	}

	if err := h.Auth.ChangePassword(middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Password changed")
}

// isForwardedHTTPS reports whether the original client connection was TLS,
// honoring the reverse proxy's X-Forwarded-Proto header.
func isForwardedHTTPS(c *fiber.Ctx) bool {
	return c.Secure() || c.Get("X-Forwarded-Proto") == "https"
}
