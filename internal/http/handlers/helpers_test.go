package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"

	"toolstore/internal/config"
	"toolstore/internal/http/handlers"
	"toolstore/internal/payment"
	"toolstore/internal/repos"
)

const testCode = "424242"

type fakeMailer struct {
	mu   sync.Mutex
	sent []map[string]any
	to   []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.sent = append(m.sent, data)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type testApp struct {
	app  *fiber.App
	deps *handlers.Deps
	mail *fakeMailer
}

type option func(*handlers.Collaborators, *fiber.Handler)

func withLoginLimit(max int) option {
	return func(_ *handlers.Collaborators, h *fiber.Handler) {
		*h = limiter.New(limiter.Config{Max: max, Expiration: time.Minute})
	}
}

func withImages(s handlers.ImageStore) option {
	return func(c *handlers.Collaborators, _ *fiber.Handler) { c.Images = s }
}

func withPayments(p payment.Orders) option {
	return func(c *handlers.Collaborators, _ *fiber.Handler) { c.Payments = p }
}

func withGoogle(p handlers.IdentityProvider) option {
	return func(c *handlers.Collaborators, _ *fiber.Handler) { c.Google = p }
}

func newTestApp(t *testing.T, opts ...option) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	st := repos.NewStore(db)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Config{
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		BcryptCost:      4,
		VerificationTTL: 15 * time.Minute,
		AdminEmails:     []string{"owner@toolstore.in"},
		FrontendURL:     "http://shop.test",
	}
	mail := &fakeMailer{}
	ext := handlers.Collaborators{Mail: mail}
	var authLimit fiber.Handler
	for _, o := range opts {
		o(&ext, &authLimit)
	}
	deps := handlers.NewDeps(st, cfg, ext)
	deps.Auth.Codes = func() string { return testCode }

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.Routes(app, deps, authLimit)
	return &testApp{app: app, deps: deps, mail: mail}
}

// do sends a JSON request and decodes the JSON response into a map.
func (ta *testApp) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []any
		require.NoError(t, json.Unmarshal(raw, &list))
		out["items"] = list
	}
	return resp.StatusCode, out
}

// register creates a verified account directly and returns its token.
func (ta *testApp) register(t *testing.T, name, email string) string {
	t.Helper()
	status, body := ta.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["token"].(string)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	oldW, oldFlags := log.Writer(), log.Flags()
	log.SetOutput(w)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
