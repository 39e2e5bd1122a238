package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "toolstore/internal/log"
	"toolstore/internal/services"
)

type InquiryHandler struct {
	Inquiries *services.InquiryService
}

func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	var in services.InquiryInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	q, err := h.Inquiries.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "inquiry.create.fail", err)
	}
	applog.Info(c, "inquiry.create", map[string]any{"inquiry_id": q.ID})
	return c.JSON(fiber.Map{"success": true, "inquiry": q})
}

func (h *InquiryHandler) List(c *fiber.Ctx) error {
	items, err := h.Inquiries.List(c.UserContext())
	if err != nil {
		return fail(c, "inquiry.list.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "inquiries": items})
}

func (h *InquiryHandler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Inquiries.Resolve(c.UserContext(), id); err != nil {
		return fail(c, "inquiry.resolve.fail", err)
	}
	applog.Audit(c, "admin.inquiry.resolve", map[string]any{"inquiry_id": id})
	return c.JSON(fiber.Map{"success": true})
}

func (h *InquiryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Inquiries.Delete(c.UserContext(), id); err != nil {
		return fail(c, "inquiry.delete.fail", err)
	}
	applog.Audit(c, "admin.inquiry.delete", map[string]any{"inquiry_id": id})
	return c.JSON(fiber.Map{"success": true})
}
