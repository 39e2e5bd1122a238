package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstore/internal/services"
)

func TestRegisterDirect(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Asha", "email": "asha@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "asha@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "Hash")

	status, body = ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Other", "email": "asha@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, body["error"])

	status, _ = ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "A", "email": "x@y.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterEmailVerificationFlow(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Ravi", "email": "ravi@example.com", "password": "secret1", "verifyBy": "email",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["needsVerification"])
	assert.NotContains(t, body, "code")
	pendingID := body["userId"].(string)
	require.Equal(t, 1, ta.mail.count())

	// A second attempt points at the same pending record.
	status, body = ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Ravi", "email": "ravi@example.com", "password": "secret1", "verifyBy": "email",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, pendingID, body["userId"])

	status, _ = ta.do(t, http.MethodPost, "/api/auth/verify-code", "", map[string]any{"userId": pendingID, "code": "000000"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ta.do(t, http.MethodPost, "/api/auth/verify-code", "", map[string]any{"userId": pendingID, "code": testCode})
	require.Equal(t, http.StatusOK, status, body)
	token := body["token"].(string)

	status, body = ta.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ravi@example.com", body["user"].(map[string]any)["email"])

	status, _ = ta.do(t, http.MethodPost, "/api/auth/verify-code", "", map[string]any{"userId": pendingID, "code": testCode})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRegisterPhoneReturnsCode(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Meena", "phone": "9876543210", "password": "secret1", "verifyBy": "phone",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, testCode, body["code"])
	assert.Zero(t, ta.mail.count())

	status, body = ta.do(t, http.MethodPost, "/api/auth/resend-code", "", map[string]any{"userId": body["userId"]})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, testCode, body["code"])

	status, _ = ta.do(t, http.MethodPost, "/api/auth/resend-code", "", map[string]any{"userId": "nope"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	ta := newTestApp(t, withLoginLimit(2))
	_, err := ta.deps.Auth.Register(context.Background(), services.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Password: "secret1",
	})
	require.NoError(t, err)

	var status int
	logs := captureLogs(t, func() {
		status, _ = ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "asha@example.com", "password": "wrong!!"})
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	e, ok := findLog(logs, "auth.login.fail")
	require.True(t, ok)
	assert.Equal(t, "warn", e.Level)

	var body map[string]any
	logs = captureLogs(t, func() {
		status, body = ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "9876543210", "password": "secret1"})
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["token"])
	e, ok = findLog(logs, "auth.login.success")
	require.True(t, ok)
	assert.NotEmpty(t, e.UserID)

	status, _ = ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "asha@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestProfileAndPassword(t *testing.T) {
	ta := newTestApp(t)
	token := ta.register(t, "Asha", "asha@example.com")

	status, body := ta.do(t, http.MethodPut, "/api/auth/profile", token, map[string]any{
		"name":            "Asha Rao",
		"shippingAddress": map[string]any{"city": "Pune"},
	})
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Asha Rao", user["name"])
	assert.Equal(t, "Pune", user["shippingAddress"].(map[string]any)["city"])

	status, _ = ta.do(t, http.MethodPut, "/api/auth/change-password", token, map[string]any{"currentPassword": "bad", "newPassword": "secret2"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = ta.do(t, http.MethodPut, "/api/auth/change-password", token, map[string]any{"currentPassword": "secret1", "newPassword": "secret2"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = ta.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "asha@example.com", "password": "secret2"})
	assert.Equal(t, http.StatusOK, status)

	status, body = ta.do(t, http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])

	status, _ = ta.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestTokenRequired(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, services.ErrMissingToken.Msg, body["error"])

	status, body = ta.do(t, http.MethodGet, "/api/auth/profile", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, services.ErrInvalidToken.Msg, body["error"])
}
