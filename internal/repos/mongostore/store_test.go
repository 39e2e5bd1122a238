package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstore/internal/domain"
	"toolstore/internal/store"
)

// testStore uses a throwaway database; it skips when MONGO_TEST_URI is unset.
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	s, err := NewStore(uri, "toolstore_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	require.NoError(t, s.db.Drop(ctx))
	require.NoError(t, s.ensureIndexes(ctx))
	require.NoError(t, s.seedIfEmpty(ctx))

	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestUsers_SparseUnique(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleUser, CreatedAt: now}))
	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "u2", Name: "Ravi", Email: "ravi@example.com", Role: domain.RoleUser, CreatedAt: now}))

	err := s.CreateUser(ctx, &domain.User{ID: "u3", Name: "Copy", Email: "asha@example.com", Role: domain.RoleUser, CreatedAt: now})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.UserByPhone(ctx, "9876543210")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProducts_AddStock(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.AddStock(ctx, "field-coil-4in", 10)
	require.NoError(t, err)
	assert.EqualValues(t, 35, p.Stock)

	_, err = s.AddStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCart_Upsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	c := domain.NewCart("c1", "u1")
	c.Add(domain.CartItem{ProductID: "field-coil-4in", Name: "Field Coil", Price: 349, Quantity: 3})
	require.NoError(t, s.SaveCart(ctx, c))
	c.Add(domain.CartItem{ProductID: "field-coil-4in", Name: "Field Coil", Price: 349, Quantity: 1})
	require.NoError(t, s.SaveCart(ctx, c))

	got, err := s.CartByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.TotalItems)
}

func TestPending_DeleteExpired(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.CreatePending(ctx, &domain.PendingUser{ID: "p1", Name: "Old", Email: "old@example.com",
		Verification: domain.Verification{Code: "111111", ExpiresAt: now.Add(-time.Minute), Method: domain.VerifyByEmail}}))
	n, err := s.DeleteExpiredPending(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
