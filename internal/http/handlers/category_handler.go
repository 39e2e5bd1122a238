package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "toolstore/internal/log"
	"toolstore/internal/services"
	"toolstore/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "category.list.fail", err)
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	}
	cat, err := h.Catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return fail(c, "category.get.fail", err)
	}
	return c.JSON(cat)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return fail(c, "category.create.fail", err)
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category_id": cat.ID, "name": cat.Name})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	id := c.Params("id")
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "category.update.fail", err)
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category_id": id})
	return c.JSON(cat)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return fail(c, "category.delete.fail", err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

func (h *CategoryHandler) ListSubcategories(c *fiber.Ctx) error {
	subs, err := h.Catalog.ListSubcategories(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "subcategory.list.fail", err)
	}
	return c.JSON(subs)
}

func (h *CategoryHandler) CreateSubcategory(c *fiber.Ctx) error {
	var in struct {
		Name string `json:"name"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	sub, err := h.Catalog.CreateSubcategory(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return fail(c, "subcategory.create.fail", err)
	}
	applog.Audit(c, "admin.subcategory.create", map[string]any{"category_id": sub.CategoryID, "name": sub.Name})
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	id := c.Params("subId")
	if err := h.Catalog.DeleteSubcategory(c.UserContext(), id); err != nil {
		return fail(c, "subcategory.delete.fail", err)
	}
	applog.Audit(c, "admin.subcategory.delete", map[string]any{"subcategory_id": id})
	return c.JSON(fiber.Map{"success": true})
}
