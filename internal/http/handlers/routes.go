package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Routes mounts the JSON API under /api. authLimit guards the credential
// endpoints and may be nil.
func Routes(app *fiber.App, d *Deps, authLimit fiber.Handler) {
	if authLimit == nil {
		authLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	user := RequireUser(d.Tokens)
	admin := RequireAdmin(d.Tokens)

	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	ah := d.AuthHandler
	auth.Post("/register", authLimit, ah.Register)
	auth.Post("/verify-code", authLimit, ah.VerifyCode)
	auth.Post("/resend-code", authLimit, ah.ResendCode)
	auth.Post("/login", authLimit, ah.Login)
	auth.Get("/me", user, ah.Me)
	auth.Get("/profile", user, ah.Me)
	auth.Get("/verify", user, ah.Verify)
	auth.Put("/profile", user, ah.UpdateProfile)
	auth.Put("/change-password", user, ah.ChangePassword)
	auth.Post("/logout", user, ah.Logout)
	auth.Get("/google", ah.GoogleStart)
	auth.Get("/google/callback", ah.GoogleCallback)

	// Categories. The static subcategory path is registered before /:id.
	ch := d.CategoryHandler
	api.Delete("/categories/subcategories/:subId", admin, ch.DeleteSubcategory)
	api.Get("/categories", ch.List)
	api.Get("/categories/:id", ch.Get)
	api.Get("/categories/:id/subcategories", ch.ListSubcategories)
	api.Post("/categories", admin, ch.Create)
	api.Put("/categories/:id", admin, ch.Update)
	api.Delete("/categories/:id", admin, ch.Delete)
	api.Post("/categories/:id/subcategories", admin, ch.CreateSubcategory)

	// Older admin clients manage categories through these paths.
	api.Post("/addproduct", admin, ch.Create)
	api.Put("/updateproduct/:id", admin, ch.Update)
	api.Delete("/deleteproduct/:id", admin, ch.Delete)

	// Products
	ph := d.ProductHandler
	api.Get("/products", ph.List)
	api.Get("/products/:id", ph.Get)
	api.Post("/products", admin, ph.Create)
	api.Put("/products/:id", admin, ph.Update)
	api.Delete("/products/:id", admin, ph.Delete)
	api.Post("/products/:id/add-stock", admin, ph.AddStock)
	api.Post("/products/:id/images", admin, ph.UploadImage)
	api.Get("/stock-report", admin, ph.StockReport)

	// Cart
	cart := api.Group("/cart", user)
	cth := d.CartHandler
	cart.Get("/", cth.Get)
	cart.Post("/add", cth.Add)
	cart.Put("/update/:productId", cth.Update)
	cart.Delete("/remove/:productId", cth.Remove)
	cart.Delete("/clear", cth.Clear)
	cart.Post("/checkout", cth.Checkout)

	api.Post("/payment/create-order", user, d.PaymentHandler.CreateOrder)
	api.Post("/payment/verify", user, d.PaymentHandler.Verify)

	// Inquiries
	ih := d.InquiryHandler
	api.Post("/inquiries", ih.Create)
	api.Get("/inquiries", admin, ih.List)
	api.Post("/inquiries/:id/resolve", admin, ih.Resolve)
	api.Delete("/inquiries/:id", admin, ih.Delete)

	api.Get("/admin/users", admin, d.AdminHandler.Users)
}
