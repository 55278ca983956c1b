package handlers

import (
	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// StatisticsHandler handles the dashboard statistics route.
type StatisticsHandler struct {
	Statistics *services.StatisticsService
}

// Report handles GET /api/statistics
// @Summary Compute dashboard statistics over the caller's filaments
// @Tags Statistics
// @Produce json
// @Success 200 {object} services.StatsReport
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /statistics [get]
func (h *StatisticsHandler) Report(c *fiber.Ctx) error {
	report, err := h.Statistics.Report(middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(report)
}
