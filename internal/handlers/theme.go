package handlers

import (
	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/gofiber/fiber/v2"
)

// ThemeHandler handles the appearance preference routes.
type ThemeHandler struct {
	Theme *services.ThemeService
}

// Get handles GET /api/theme
// @Summary Read the caller's theme, or defaults when anonymous
// @Tags Theme
// @Produce json
// @Success 200 {object} services.ThemeConfig
// @Router /theme [get]
func (h *ThemeHandler) Get(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Theme.Get(middleware.CurrentUser(c)))
}

// Set handles POST /api/theme
// @Summary Persist the caller's theme preference
// @Tags Theme
// @Accept json
// @Produce json
// @Param theme body services.ThemeConfig true "Theme"
// @Success 200 {object} services.ThemeConfig
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /theme [post]
func (h *ThemeHandler) Set(c *fiber.Ctx) error {
	var cfg services.ThemeConfig
	if err := c.BodyParser(&cfg); err != nil {
		return types.Validation("Invalid request body")
	}
	saved, err := h.Theme.Set(middleware.CurrentUser(c), cfg)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(saved)
}
