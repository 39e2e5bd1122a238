package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolstore/internal/services"
)

func TestInquiries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.inq.Create(ctx, services.InquiryInput{Name: "A", Email: "a@x.com"})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = e.inq.Create(ctx, services.InquiryInput{Name: "A", Email: "nope", Message: "hi"})
	assert.ErrorIs(t, err, services.ErrValidation)

	q, err := e.inq.Create(ctx, services.InquiryInput{Name: "Asha", Email: "a@x.com", Message: "Bulk price for coils?"})
	require.NoError(t, err)
	assert.False(t, q.Resolved)

	require.NoError(t, e.inq.Resolve(ctx, q.ID))
	require.NoError(t, e.inq.Resolve(ctx, q.ID))
	require.NoError(t, e.inq.Resolve(ctx, "missing"))

	list, err := e.inq.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Resolved)

	require.NoError(t, e.inq.Delete(ctx, q.ID))
	list, err = e.inq.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
