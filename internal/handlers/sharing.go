package handlers

import (
	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/filadex/filadex-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// SharingHandler handles sharing settings and the public inventory view.
type SharingHandler struct {
	Sharing *services.SharingService
}

type sharingRequest struct {
	MaterialID *types.FlexUint `json:"materialId"`
	IsPublic   *bool           `json:"isPublic"`
}

// List handles GET /api/user-sharing
// @Summary List the caller's sharing settings
// @Tags Sharing
// @Produce json
// @Success 200 {array} services.SharingView
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user-sharing [get]
func (h *SharingHandler) List(c *fiber.Ctx) error {
	views, err := h.Sharing.List(middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// Set handles POST /api/user-sharing
// @Summary Upsert one sharing flag; null materialId toggles global sharing
// @Tags Sharing
// @Accept json
// @Produce json
// @Param body body sharingRequest true "Flag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user-sharing [post]
func (h *SharingHandler) Set(c *fiber.Ctx) error {
	var req sharingRequest
	if err := c.BodyParser(&req); err != nil {
		return types.Validation("Invalid request body")
	}
	if req.IsPublic == nil {
		return types.Validation("isPublic is required")
	}

	var materialID *uint
	if req.MaterialID != nil {
		id := req.MaterialID.Uint()
		materialID = &id
	}

	if err := h.Sharing.Set(middleware.CurrentUser(c).ID, materialID, *req.IsPublic); err != nil {
		return err
	}
	return utils.MessageResponse(c, "Sharing updated")
}

// Public handles GET /api/public/filaments/:id (no auth)
// @Summary Read a user's publicly shared filaments
// @Tags Sharing
// @Produce json
// @Param id path int true "Owner user ID"
// @Success 200 {object} services.PublicView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /public/filaments/{id} [get]
func (h *SharingHandler) Public(c *fiber.Ctx) error {
	ownerID, err := parseID(c)
	if err != nil {
		return err
	}
	view, err := h.Sharing.PublicFilaments(ownerID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(view)
}
