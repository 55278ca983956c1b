package handlers

import (
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/gofiber/fiber/v2"
)

// ReferenceHandler adapts one RefStore to the shared reference list route
// contract: GET (list or ?export=csv), POST (create or ?import=csv),
// DELETE /:id, and PATCH /:id/order for the sortable resources.
type ReferenceHandler[T any] struct {
	Store *services.RefStore[T]
}

type csvImportRequest struct {
	CSVData string `json:"csvData"`
}

type orderRequest struct {
	NewOrder *int `json:"newOrder"`
}

// Register mounts the resource's routes on the router group. All routes
// expect the auth middleware to run beforehand.
func (h *ReferenceHandler[T]) Register(r fiber.Router) {
	prefix := "/" + h.Store.Resource()
	r.Get(prefix, h.List)
	r.Post(prefix, h.Create)
	r.Delete(prefix+"/:id", h.Delete)
	if h.Store.Sortable() {
		r.Patch(prefix+"/:id/order", h.UpdateOrder)
	}
}

// List handles GET /api/{resource}[?export=csv]
// @Summary List reference items, optionally rendered as CSV
// @Tags References
// @Produce json
// @Param export query string false "Set to csv for a CSV download"
// @Success 200 {array} object
// @Security CookieAuth
func (h *ReferenceHandler[T]) List(c *fiber.Ctx) error {
	if wantsCSVExport(c) {
		payload, err := h.Store.ExportCSV()
		if err != nil {
			return err
		}
		return sendCSV(c, h.Store.Resource()+".csv", payload)
	}

	items, err := h.Store.List()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

// Create handles POST /api/{resource}[?import=csv]
// @Summary Create one reference item, or bulk-import a CSV batch
// @Tags References
// @Accept json
// @Produce json
// @Success 201 {object} object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
func (h *ReferenceHandler[T]) Create(c *fiber.Ctx) error {
	if wantsCSVImport(c) {
		var req csvImportRequest
		if err := c.BodyParser(&req); err != nil {
			return types.Validation("Invalid request body")
		}
		if req.CSVData == "" {
			return types.Validation("csvData is required for import")
		}
		result, err := h.Store.BulkImport(req.CSVData)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(result)
	}

	var fields services.RefFields
	if err := c.BodyParser(&fields); err != nil {
		return types.Validation("Invalid request body")
	}
	item, err := h.Store.Create(fields)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Delete handles DELETE /api/{resource}/:id
// @Summary Delete a reference item unless filaments still reference it
// @Tags References
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
func (h *ReferenceHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Store.Delete(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateOrder handles PATCH /api/{resource}/:id/order
// @Summary Rewrite a sortable item's sort order
// @Tags References
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
func (h *ReferenceHandler[T]) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req orderRequest
	if err := c.BodyParser(&req); err != nil || req.NewOrder == nil {
		return types.Validation("newOrder is required")
	}
	item, err := h.Store.UpdateOrder(id, *req.NewOrder)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(item)
}
