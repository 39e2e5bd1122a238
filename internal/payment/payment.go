// Package payment creates payment orders with an external gateway.
package payment

import (
	"context"
	"errors"
)

// ErrInvalidAmount is returned for non-positive amounts.
var ErrInvalidAmount = errors.New("amount must be a positive integer in the smallest currency unit")

// Order is the gateway's view of a created order. Amount is in the smallest
// currency unit (paise, cents).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	KeyID    string `json:"key_id,omitempty"`
}

type Orders interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	// VerifySignature reports whether signature was issued by the gateway
	// for the given order and payment.
	VerifySignature(orderID, paymentID, signature string) bool
}
