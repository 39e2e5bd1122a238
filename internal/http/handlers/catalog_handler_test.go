package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGuard(t *testing.T) {
	ta := newTestApp(t)
	userTok := ta.register(t, "Asha", "asha@example.com")
	adminTok := ta.register(t, "Owner", "owner@toolstore.in")
	cat := map[string]any{"name": "Hand Tools"}

	status, _ := ta.do(t, http.MethodPost, "/api/categories", "", cat)
	assert.Equal(t, http.StatusUnauthorized, status)

	var body map[string]any
	logs := captureLogs(t, func() {
		status, body = ta.do(t, http.MethodPost, "/api/categories", userTok, cat)
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", body["error"])
	_, ok := findLog(logs, "access.denied.admin")
	assert.True(t, ok)

	logs = captureLogs(t, func() {
		status, _ = ta.do(t, http.MethodPost, "/api/categories", adminTok, cat)
	})
	assert.Equal(t, http.StatusCreated, status)
	e, ok := findLog(logs, "admin.category.create")
	require.True(t, ok)
	assert.Equal(t, "audit", e.Level)
	assert.NotEmpty(t, e.UserID)

	status, body = ta.do(t, http.MethodGet, "/api/admin/users", adminTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["users"], 2)
}

func TestCategoryRoutes(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.register(t, "Owner", "owner@toolstore.in")

	status, body := ta.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 3)

	status, body = ta.do(t, http.MethodPost, "/api/addproduct", admin, map[string]any{"name": "Hand Tools", "description": "Spanners"})
	require.Equal(t, http.StatusCreated, status, body)
	id := body["id"].(string)

	status, _ = ta.do(t, http.MethodPost, "/api/categories", admin, map[string]any{"name": "Hand Tools"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = ta.do(t, http.MethodPut, "/api/updateproduct/"+id, admin, map[string]any{"description": "Spanners and pliers"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hand Tools", body["name"])
	assert.Equal(t, "Spanners and pliers", body["description"])

	status, _ = ta.do(t, http.MethodDelete, "/api/deleteproduct/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = ta.do(t, http.MethodGet, "/api/categories/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ta.do(t, http.MethodDelete, "/api/categories/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubcategoryRoutes(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.register(t, "Owner", "owner@toolstore.in")

	status, body := ta.do(t, http.MethodPost, "/api/categories/power-tools/subcategories", admin, map[string]any{"name": "Grinders"})
	require.Equal(t, http.StatusCreated, status, body)
	subID := body["id"].(string)

	status, _ = ta.do(t, http.MethodPost, "/api/categories/power-tools/subcategories", admin, map[string]any{"name": "Grinders"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = ta.do(t, http.MethodPost, "/api/categories/missing/subcategories", admin, map[string]any{"name": "Grinders"})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ta.do(t, http.MethodPost, "/api/categories/power-tools/subcategories", admin, map[string]any{"name": " "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ta.do(t, http.MethodGet, "/api/categories/power-tools/subcategories", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 3)

	status, _ = ta.do(t, http.MethodDelete, "/api/categories/subcategories/"+subID, admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = ta.do(t, http.MethodDelete, "/api/categories/subcategories/"+subID, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductRoutesAndStock(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.register(t, "Owner", "owner@toolstore.in")

	status, body := ta.do(t, http.MethodGet, "/api/products?category=power-tools", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)
	status, body = ta.do(t, http.MethodGet, "/api/products?category=power-tools&subcategory=Rotors", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, body = ta.do(t, http.MethodPost, "/api/products/cordless-drill-18v/add-stock", admin, map[string]any{"amount": 5})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 17, body["stock"])
	status, body = ta.do(t, http.MethodPost, "/api/products/cordless-drill-18v/add-stock", admin, map[string]any{"amount": "3"})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 20, body["stock"])

	for _, bad := range []any{0, -2, 2.5, "many", nil} {
		status, _ = ta.do(t, http.MethodPost, "/api/products/cordless-drill-18v/add-stock", admin, map[string]any{"amount": bad})
		assert.Equal(t, http.StatusBadRequest, status, "amount %v", bad)
	}
	status, _ = ta.do(t, http.MethodPost, "/api/products/missing/add-stock", admin, map[string]any{"amount": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = ta.do(t, http.MethodGet, "/api/stock-report", admin, nil)
	require.Equal(t, http.StatusOK, status)
	rows := body["items"].([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, "cordless-drill-18v", rows[0].(map[string]any)["id"])

	status, body = ta.do(t, http.MethodPost, "/api/products", admin, map[string]any{
		"name": "Angle Grinder", "categoryId": "power-tools", "subcategory": "Cutting Machine", "price": 2999, "stock": 4,
	})
	require.Equal(t, http.StatusCreated, status, body)
	status, _ = ta.do(t, http.MethodDelete, "/api/products/"+body["id"].(string), admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

type fakeImages struct {
	key  string
	size int64
}

func (f *fakeImages) PutImage(_ context.Context, productID, filename string, r io.Reader, size int64, _ string) (string, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", err
	}
	f.key, f.size = productID+"/"+filename, n
	return "http://cdn.test/" + f.key, nil
}

func imageRequest(t *testing.T, path, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="drill.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadImage(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.register(t, "Owner", "owner@toolstore.in")
	resp, err := ta.app.Test(imageRequest(t, "/api/products/cordless-drill-18v/images", admin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	imgs := &fakeImages{}
	ta = newTestApp(t, withImages(imgs))
	admin = ta.register(t, "Owner", "owner@toolstore.in")
	resp, err = ta.app.Test(imageRequest(t, "/api/products/cordless-drill-18v/images", admin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "cordless-drill-18v/drill.png", imgs.key)

	status, body := ta.do(t, http.MethodGet, "/api/products/cordless-drill-18v", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "http://cdn.test/cordless-drill-18v/drill.png", body["image"])
	assert.Len(t, body["images"], 1)

	resp, err = ta.app.Test(imageRequest(t, "/api/products/missing/images", admin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
