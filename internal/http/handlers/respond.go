package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "toolstore/internal/log"
	"toolstore/internal/services"
)

const genericError = "Something went wrong. Please try again."

// fail maps a service error to its HTTP status and writes {"error": msg}.
// Unclassified errors are logged and answered with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	var se *services.Error
	if !errors.As(err, &se) {
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericError})
	}
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrExpired),
		errors.Is(err, services.ErrInvalidCode):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrAuth):
		status = fiber.StatusUnauthorized
	}
	if status == fiber.StatusBadRequest || status == fiber.StatusUnauthorized {
		applog.Security(c, action, map[string]any{"reason": se.Msg})
	}
	return c.Status(status).JSON(fiber.Map{"error": se.Msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"reason": msg})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// bind parses a JSON body; an empty body leaves dst untouched.
func bind(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(dst)
}

// ErrorHandler is the app-wide fiber error handler. Fiber errors keep their
// status; anything else is logged and hidden behind a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericError})
}
