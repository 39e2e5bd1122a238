package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (f *fakeOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.got = data
	return f.resp, f.err
}

func sign(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestOffline_CreateOrder(t *testing.T) {
	o, err := Offline{KeyID: "rzp_test"}.CreateOrder(context.Background(), 74990, "INR", "rcptid_11")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(o.ID, "order_"))
	assert.Len(t, o.ID, len("order_")+14)
	assert.EqualValues(t, 74990, o.Amount)
	assert.Equal(t, "created", o.Status)
	assert.Equal(t, "rzp_test", o.KeyID)

	_, err = Offline{}.CreateOrder(context.Background(), 0, "INR", "r")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestOffline_VerifySignatureAcceptsAnything(t *testing.T) {
	assert.True(t, Offline{}.VerifySignature("order_x", "pay_y", "whatever"))
}

func TestRazorpay_CreateOrder(t *testing.T) {
	f := &fakeOrders{resp: map[string]interface{}{
		"id": "order_abc", "amount": float64(1500), "currency": "INR",
		"receipt": "rcpt", "status": "created",
	}}
	rp := NewRazorpay("key", "secret")
	rp.orders = f

	o, err := rp.CreateOrder(context.Background(), 1500, "INR", "rcpt")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", o.ID)
	assert.EqualValues(t, 1500, o.Amount)
	assert.Equal(t, "created", o.Status)
	assert.Equal(t, "key", o.KeyID)
	assert.EqualValues(t, 1500, f.got["amount"])
	assert.Equal(t, "rcpt", f.got["receipt"])
	assert.Equal(t, 1, f.got["payment_capture"])
}

func TestRazorpay_CreateOrderErrors(t *testing.T) {
	rp := NewRazorpay("key", "secret")
	rp.orders = &fakeOrders{err: errors.New("Authentication failed")}

	_, err := rp.CreateOrder(context.Background(), 1500, "INR", "rcpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")

	rp.orders = &fakeOrders{resp: map[string]interface{}{}}
	_, err = rp.CreateOrder(context.Background(), 1500, "INR", "rcpt")
	assert.Error(t, err)

	_, err = rp.CreateOrder(context.Background(), -5, "INR", "rcpt")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rp.CreateOrder(ctx, 1500, "INR", "rcpt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRazorpay_VerifySignature(t *testing.T) {
	rp := NewRazorpay("key", "secret")
	good := sign("secret", "order_abc", "pay_123")

	assert.True(t, rp.VerifySignature("order_abc", "pay_123", good))
	assert.False(t, rp.VerifySignature("order_abc", "pay_999", good))
	assert.False(t, rp.VerifySignature("order_abc", "pay_123", sign("other", "order_abc", "pay_123")))
}
