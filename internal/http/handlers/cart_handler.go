package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "toolstore/internal/log"
	"toolstore/internal/payment"
	"toolstore/internal/services"
	"toolstore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	cart, err := h.Cart.Get(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "cart.get.fail", err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in services.AddItemInput
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	cart, err := h.Cart.AddItem(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		return fail(c, "cart.add.fail", err)
	}
	return c.JSON(fiber.Map{"message": "Item added to cart successfully", "cart": cart})
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	cart, err := h.Cart.UpdateQuantity(c.UserContext(), currentUser(c).ID, c.Params("productId"), in.Quantity)
	if err != nil {
		return fail(c, "cart.update.fail", err)
	}
	return c.JSON(fiber.Map{"message": "Cart updated successfully", "cart": cart})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	cart, err := h.Cart.RemoveItem(c.UserContext(), currentUser(c).ID, c.Params("productId"))
	if err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart successfully", "cart": cart})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart, err := h.Cart.Clear(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "cart.clear.fail", err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully", "cart": cart})
}

func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in struct {
		Currency string `json:"currency"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	currency, ok := currencyOrDefault(in.Currency)
	if !ok {
		return badRequest(c, "currency must be a 3-letter code")
	}
	order, err := h.Cart.Checkout(c.UserContext(), currentUser(c).ID, currency)
	if err != nil {
		return paymentFail(c, "cart.checkout.fail", err)
	}
	applog.Audit(c, "cart.checkout", map[string]any{"order_id": order.ID, "amount": order.Amount})
	return c.JSON(order)
}

func currencyOrDefault(s string) (string, bool) {
	if s == "" {
		return "INR", true
	}
	return validate.Currency(s)
}

// paymentFail keeps service errors on their usual statuses and reports
// gateway failures as 502.
func paymentFail(c *fiber.Ctx, action string, err error) error {
	var se *services.Error
	switch {
	case errors.As(err, &se):
		return fail(c, action, err)
	case errors.Is(err, payment.ErrInvalidAmount):
		return badRequest(c, err.Error())
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to create order"})
}

type PaymentHandler struct {
	Orders payment.Orders
}

// CreateOrder takes an amount already in the smallest currency unit.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var in struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Receipt  string  `json:"receipt"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if in.Amount <= 0 || in.Amount != float64(int64(in.Amount)) {
		return badRequest(c, "amount required (positive integer in the smallest currency unit)")
	}
	currency, ok := currencyOrDefault(in.Currency)
	if !ok {
		return badRequest(c, "currency must be a 3-letter code")
	}
	receipt, ok := validate.Text(in.Receipt, 40)
	if !ok {
		receipt = "rcptid_11"
	}
	order, err := h.Orders.CreateOrder(c.UserContext(), int64(in.Amount), currency, receipt)
	if err != nil {
		return paymentFail(c, "payment.create_order.fail", err)
	}
	applog.Audit(c, "payment.create_order", map[string]any{"order_id": order.ID, "amount": order.Amount})
	return c.JSON(order)
}

// Verify checks the signature Checkout hands back after payment.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var in struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if err := bind(c, &in); err != nil {
		return badRequest(c, "invalid request body")
	}
	orderID, ok1 := validate.Text(in.OrderID, 64)
	paymentID, ok2 := validate.Text(in.PaymentID, 64)
	signature, ok3 := validate.Text(in.Signature, 128)
	if !ok1 || !ok2 || !ok3 {
		return badRequest(c, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	if !h.Orders.VerifySignature(orderID, paymentID, signature) {
		applog.Security(c, "payment.verify.fail", map[string]any{"order_id": orderID})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid payment signature"})
	}
	applog.Audit(c, "payment.verify", map[string]any{"order_id": orderID, "payment_id": paymentID})
	return c.JSON(fiber.Map{"success": true, "orderId": orderID, "paymentId": paymentID})
}
