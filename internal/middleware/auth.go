package middleware

import (
	"errors"
	"time"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/session"
	"github.com/filadex/filadex-server/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const userLocalKey = "currentUser"

// RequireAuth validates the session cookie and attaches the user row to the
// request context. A cookie from a previous server instance or with a bad
// signature is cleared before the 401.
func RequireAuth(db *gorm.DB, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, sessions)
		if err != nil {
			return err
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// RequireAdmin composes RequireAuth with an admin role check.
func RequireAdmin(db *gorm.DB, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, sessions)
		if err != nil {
			return err
		}
		if !user.IsAdmin {
			return types.Forbidden("Admin privileges required")
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid session cookie is present and
// silently continues as anonymous otherwise. Used by endpoints like the
// theme read that serve defaults to anonymous callers.
func OptionalAuth(db *gorm.DB, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := resolveUser(c, db, sessions); err == nil {
			c.Locals(userLocalKey, user)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by the middleware, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}

func resolveUser(c *fiber.Ctx, db *gorm.DB, sessions *session.Manager) (*models.User, error) {
	cookie := c.Cookies(session.CookieName)
	if cookie == "" {
		return nil, types.Unauthorized("Not authenticated")
	}

	userID, err := sessions.Verify(cookie)
	if err != nil {
		clearSessionCookie(c)
		return nil, types.Unauthorized("Session is no longer valid")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			clearSessionCookie(c)
			return nil, types.Unauthorized("Session user no longer exists")
		}
		return nil, err
	}

	return &user, nil
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
