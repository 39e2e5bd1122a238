package handlers

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"toolstore/internal/domain"
	applog "toolstore/internal/log"
	"toolstore/internal/services"
)

// MaxImageSize bounds a single product image upload.
const MaxImageSize = 10 << 20

// ImageStore persists uploaded product images and returns their public URL.
type ImageStore interface {
	PutImage(ctx context.Context, productID, filename string, r io.Reader, size int64, contentType string) (string, error)
}

type ProductHandler struct {
	Catalog *services.CatalogService
	Images  ImageStore
}

func filterFrom(c *fiber.Ctx) domain.ProductFilter {
	cat := c.Query("category")
	if cat == "" {
		cat = c.Query("categoryId")
	}
	return domain.ProductFilter{
		CategoryID:  strings.TrimSpace(cat),
		Subcategory: strings.TrimSpace(c.Query("subcategory")),
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.UserContext(), filterFrom(c))
	if err != nil {
		return fail(c, "product.list.fail", err)
	}
	return c.JSON(ps)
}

func (h *ProductHandler) StockReport(c *fiber.Ctx) error {
	rows, err := h.Catalog.StockReport(c.UserContext(), filterFrom(c))
	if err != nil {
		return fail(c, "product.stock_report.fail", err)
	}
	return c.JSON(rows)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "product.get.fail", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, "product.create.fail", err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, "product.update.fail", err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, "product.delete.fail", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// AddStock accepts {"amount": n} where n may be a JSON number or numeric string.
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	var in struct {
		Amount any `json:"amount"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	var amount float64
	switch v := in.Amount.(type) {
	case float64:
		amount = v
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return badRequest(c, "amount must be a positive number")
		}
		amount = n
	}
	p, err := h.Catalog.AddStock(c.UserContext(), c.Params("id"), amount)
	if err != nil {
		return fail(c, "product.add_stock.fail", err)
	}
	applog.Audit(c, "admin.product.add_stock", map[string]any{"product_id": p.ID, "amount": amount, "stock": p.Stock})
	return c.JSON(p)
}

// UploadImage stores the multipart "image" field and attaches its URL.
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	if h.Images == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "image storage is not configured"})
	}
	id := c.Params("id")
	if _, err := h.Catalog.GetProduct(c.UserContext(), id); err != nil {
		return fail(c, "product.image.fail", err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	if fh.Size > MaxImageSize {
		return badRequest(c, "image exceeds 10 MiB")
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(ct, "image/") {
		return badRequest(c, "file must be an image")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, "product.image.open.fail", err)
	}
	defer f.Close()

	url, err := h.Images.PutImage(c.UserContext(), id, fh.Filename, f, fh.Size, ct)
	if err != nil {
		return fail(c, "product.image.store.fail", err)
	}
	p, err := h.Catalog.AttachImage(c.UserContext(), id, url)
	if err != nil {
		return fail(c, "product.image.attach.fail", err)
	}
	applog.Audit(c, "admin.product.image", map[string]any{"product_id": id, "url": url})
	return c.Status(fiber.StatusCreated).JSON(p)
}
