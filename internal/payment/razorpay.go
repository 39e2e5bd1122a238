package payment

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// orderCreator is the slice of the SDK's order resource used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Razorpay creates orders and checks checkout signatures through the official SDK.
type Razorpay struct {
	KeyID     string
	KeySecret string

	orders orderCreator
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{KeyID: keyID, KeySecret: keySecret, orders: client.Order}
}

func (r *Razorpay) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := r.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay: order response has no id")
	}
	o := &Order{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		KeyID:    r.KeyID,
	}
	// JSON numbers come back from the SDK as float64.
	if v, ok := body["amount"].(float64); ok {
		o.Amount = int64(v)
	}
	if v, ok := body["currency"].(string); ok && v != "" {
		o.Currency = v
	}
	if v, ok := body["receipt"].(string); ok && v != "" {
		o.Receipt = v
	}
	if v, ok := body["status"].(string); ok {
		o.Status = v
	}
	return o, nil
}

// VerifySignature checks the HMAC-SHA256 of "order_id|payment_id" that
// Checkout returns after a successful payment.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	attrs := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(attrs, signature, r.KeySecret)
}
