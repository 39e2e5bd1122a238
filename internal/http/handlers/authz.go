package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"toolstore/internal/domain"
	applog "toolstore/internal/log"
	"toolstore/internal/services"
)

const userLocal = "user"

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func authenticate(c *fiber.Ctx, tokens *services.Tokens) (*domain.User, error) {
	u, err := tokens.Authenticate(c.UserContext(), bearer(c))
	if err != nil {
		return nil, err
	}
	c.Locals(userLocal, u)
	c.Locals(applog.UserKey, u.ID)
	return u, nil
}

// RequireUser resolves the bearer token to a user or answers 401.
func RequireUser(tokens *services.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authenticate(c, tokens); err != nil {
			return fail(c, "auth.token.reject", err)
		}
		return c.Next()
	}
}

// RequireAdmin answers 401 without a valid token and 403 for non-admins.
func RequireAdmin(tokens *services.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := authenticate(c, tokens)
		if err != nil {
			return fail(c, "auth.token.reject", err)
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userLocal).(*domain.User)
	return u
}
