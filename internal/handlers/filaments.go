package handlers

import (
	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/gofiber/fiber/v2"
)

// FilamentHandler handles spool CRUD and export routes.
type FilamentHandler struct {
	Filaments *services.FilamentService
}

// List handles GET /api/filaments
// @Summary List the caller's filaments
// @Tags Filaments
// @Produce json
// @Param all query bool false "Admins: return every user's filaments"
// @Success 200 {array} models.Filament
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /filaments [get]
func (h *FilamentHandler) List(c *fiber.Ctx) error {
	filaments, err := h.Filaments.List(middleware.CurrentUser(c), c.QueryBool("all"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(filaments)
}

// Get handles GET /api/filaments/:id
// @Summary Get one filament
// @Tags Filaments
// @Produce json
// @Param id path int true "Filament ID"
// @Success 200 {object} models.Filament
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /filaments/{id} [get]
func (h *FilamentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	filament, err := h.Filaments.Get(id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(filament)
}

// Create handles POST /api/filaments
// @Summary Create a filament owned by the caller
// @Tags Filaments
// @Accept json
// @Produce json
// @Param filament body services.FilamentInput true "Filament fields"
// @Success 201 {object} models.Filament
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /filaments [post]
func (h *FilamentHandler) Create(c *fiber.Ctx) error {
	var in services.FilamentInput
	if err := c.BodyParser(&in); err != nil {
		return types.Validation("Invalid request body")
	}
	filament, err := h.Filaments.Create(middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(filament)
}

// Update handles PATCH /api/filaments/:id
// @Summary Partially update a filament
// @Tags Filaments
// @Accept json
// @Produce json
// @Param id path int true "Filament ID"
// @Param patch body services.FilamentInput true "Fields to change"
// @Success 200 {object} models.Filament
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /filaments/{id} [patch]
func (h *FilamentHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in services.FilamentInput
	if err := c.BodyParser(&in); err != nil {
		return types.Validation("Invalid request body")
	}
	filament, err := h.Filaments.Update(id, middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(filament)
}

// Delete handles DELETE /api/filaments/:id
// @Summary Delete a filament
// @Tags Filaments
// @Param id path int true "Filament ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /filaments/{id} [delete]
func (h *FilamentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Filaments.Delete(id, middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export handles GET /api/filaments/export?ids=1,2&format=csv
// @Summary Export the caller's filaments as CSV or JSON
// @Tags Filaments
// @Produce json
// @Param ids query string false "Comma-separated filament ids; empty exports all"
// @Param format query string false "csv or json (default json)"
// @Success 200 {array} models.Filament
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /filaments/export [get]
func (h *FilamentHandler) Export(c *fiber.Ctx) error {
	ids, err := services.ParseIDList(c.Query("ids"))
	if err != nil {
		return err
	}
	filaments, err := h.Filaments.Export(middleware.CurrentUser(c), ids)
	if err != nil {
		return err
	}

	if c.Query("format") == "csv" {
		payload, err := services.ExportCSV(filaments)
		if err != nil {
			return err
		}
		return sendCSV(c, "filaments.csv", payload)
	}
	return c.Status(fiber.StatusOK).JSON(filaments)
}
