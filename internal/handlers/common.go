package handlers

import (
	"errors"
	"fmt"

	"github.com/filadex/filadex-server/internal/types"
	"github.com/filadex/filadex-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler translates the error taxonomy into the uniform envelope.
// Installed as the app-level Fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "internal"

	var apiErr *types.ApiError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
		message = apiErr.Message
		errorType = apiErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
		errorType = "http"
	default:
		// Never leak internal error details to clients.
		message = "Internal Server Error"
	}

	return utils.ErrorResponse(c, message, code, errorType)
}

// parseID extracts the :id path parameter.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, types.Validation("Invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}

// sendCSV writes a CSV payload as a download attachment.
func sendCSV(c *fiber.Ctx, filename, payload string) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendString(payload)
}

// wantsCSVExport reports whether the list request asked for CSV rendering.
func wantsCSVExport(c *fiber.Ctx) bool {
	return c.Query("export") == "csv"
}

// wantsCSVImport reports whether the create request carries a CSV batch.
func wantsCSVImport(c *fiber.Ctx) bool {
	return c.Query("import") == "csv"
}
