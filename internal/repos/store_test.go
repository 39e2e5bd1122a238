package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstore/internal/domain"
	"toolstore/internal/repos"
	"toolstore/internal/store"
)

func openStore(t *testing.T) *repos.Store {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	s := repos.NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenDB_SeedsCatalog(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	subs, err := s.ListSubcategories(ctx, "power-tools")
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	p, err := s.ProductByID(ctx, "cordless-drill-18v")
	require.NoError(t, err)
	assert.EqualValues(t, 12, p.Stock)
	assert.NotEmpty(t, p.Specifications)
}

func TestUsers_SparseUniqueContacts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Two users without a phone must not collide on the empty value.
	a := &domain.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Hash: "x", Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}
	b := &domain.User{ID: "u2", Name: "Ravi", Email: "ravi@example.com", Hash: "x", Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateUser(ctx, a))
	require.NoError(t, s.CreateUser(ctx, b))

	dup := &domain.User{ID: "u3", Name: "Copy", Email: "asha@example.com", Hash: "x", Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrDuplicate)

	got, err := s.UserByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.ID)
	assert.Equal(t, "", got.Phone)

	_, err = s.UserByPhone(ctx, "9999999999")
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.PromoteAdmins(ctx, []string{"asha@example.com", "nobody@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	got, err = s.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}

func TestPending_ExpirySweep(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fresh := &domain.PendingUser{ID: "p1", Name: "Fresh", Email: "fresh@example.com", Hash: "h",
		Verification: domain.Verification{Code: "123456", ExpiresAt: now.Add(15 * time.Minute), Method: domain.VerifyByEmail}, CreatedAt: now}
	stale := &domain.PendingUser{ID: "p2", Name: "Stale", Phone: "9876543210", Hash: "h",
		Verification: domain.Verification{Code: "654321", ExpiresAt: now.Add(-time.Minute), Method: domain.VerifyByPhone}, CreatedAt: now}
	require.NoError(t, s.CreatePending(ctx, fresh))
	require.NoError(t, s.CreatePending(ctx, stale))

	got, err := s.PendingByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "654321", got.Verification.Code)
	assert.True(t, got.Verification.Expired(now))

	n, err := s.DeleteExpiredPending(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.PendingByID(ctx, "p2")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.PendingByID(ctx, "p1")
	assert.NoError(t, err)
}

func TestCart_SaveAndReload(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.CartByUser(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	c := domain.NewCart("c1", "u1")
	c.Add(domain.CartItem{ProductID: "field-coil-4in", Name: "Field Coil", Price: 349, Quantity: 2})
	c.Add(domain.CartItem{ProductID: "armature-gbm-13", Name: "Armature", Price: 899, Quantity: 1})
	c.UpdatedAt = time.Now()
	require.NoError(t, s.SaveCart(ctx, c))

	c.Remove("field-coil-4in")
	require.NoError(t, s.SaveCart(ctx, c))

	got, err := s.CartByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "armature-gbm-13", got.Items[0].ProductID)
	assert.Equal(t, 1, got.TotalItems)
	assert.InDelta(t, 899.0, got.TotalAmount, 0.001)
}

func TestProducts_AddStockAndFilter(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p, err := s.AddStock(ctx, "armature-gbm-13", 5)
	require.NoError(t, err)
	assert.EqualValues(t, 45, p.Stock)

	_, err = s.AddStock(ctx, "missing", 5)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListProducts(ctx, domain.ProductFilter{CategoryID: "power-tools", Subcategory: "Drill Machines"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cordless-drill-18v", list[0].ID)

	rows, err := s.StockReport(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.EqualValues(t, 12, rows[0].Stock)
}

func TestInquiries_NewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.CreateInquiry(ctx, &domain.Inquiry{ID: "i1", Name: "A", Email: "a@example.com", Message: "first", CreatedAt: base}))
	require.NoError(t, s.CreateInquiry(ctx, &domain.Inquiry{ID: "i2", Name: "B", Email: "b@example.com", Message: "second", CreatedAt: base.Add(time.Second)}))

	require.NoError(t, s.ResolveInquiry(ctx, "i1"))
	require.NoError(t, s.ResolveInquiry(ctx, "missing"))
	require.NoError(t, s.DeleteInquiry(ctx, "missing"))

	list, err := s.ListInquiries(ctx, 200)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "i2", list[0].ID)
	assert.True(t, list[1].Resolved)
}
