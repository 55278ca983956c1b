package handlers

import (
	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the admin-only account management routes.
type UserHandler struct {
	Users *services.UserService
}

// List handles GET /api/users
// @Summary List all accounts
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// Create handles POST /api/users
// @Summary Create an account
// @Tags Users
// @Accept json
// @Produce json
// @Param user body services.UserInput true "Account fields"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in services.UserInput
	if err := c.BodyParser(&in); err != nil {
		return types.Validation("Invalid request body")
	}
	user, err := h.Users.Create(in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update handles PUT /api/users/:id
// @Summary Update an account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body services.UserInput true "Fields to change"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in services.UserInput
	if err := c.BodyParser(&in); err != nil {
		return types.Validation("Invalid request body")
	}
	user, err := h.Users.Update(id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// Delete handles DELETE /api/users/:id
// @Summary Delete an account (never your own)
// @Tags Users
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Users.Delete(id, middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
