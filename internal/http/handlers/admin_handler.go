package handlers

import (
	"github.com/gofiber/fiber/v2"

	"toolstore/internal/services"
)

type AdminHandler struct {
	Auth *services.AuthService
}

// GET /api/admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.Auth.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, "admin.users.list.fail", err)
	}
	return c.JSON(fiber.Map{"users": users})
}
