package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"toolstore/internal/payment"
	"toolstore/internal/repos"
	"toolstore/internal/services"
)

type sentMail struct {
	To, Subject, Template string
	Data                  map[string]any
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Template: template, Data: data})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	store   *repos.Store
	auth    *services.AuthService
	cart    *services.CartService
	catalog *services.CatalogService
	inq     *services.InquiryService
	mail    *fakeMailer
	clock   *fakeClock
	code    string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	st := repos.NewStore(db)
	t.Cleanup(func() { _ = st.Close() })

	e := &env{
		store: st,
		mail:  &fakeMailer{},
		clock: &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		code:  "424242",
	}
	tokens := services.NewTokens("test-secret", 7*24*time.Hour, st)
	tokens.Now = e.clock.Now
	e.auth = &services.AuthService{
		Users:       st,
		Pending:     st,
		Tokens:      tokens,
		Mail:        e.mail,
		Codes:       func() string { return e.code },
		Now:         e.clock.Now,
		AdminEmails: []string{"owner@toolstore.in"},
		BcryptCost:  4,
		CodeTTL:     15 * time.Minute,
	}
	e.cart = services.NewCartService(st, payment.Offline{KeyID: "rzp_test"})
	e.cart.Now = e.clock.Now
	e.catalog = services.NewCatalogService(st)
	e.inq = services.NewInquiryService(st)
	return e
}
