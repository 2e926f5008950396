package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/dmitrijs2005/policyinsight/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a, err := r.Create(ctx, &models.User{Email: "a@x.com", Name: "A", Phone: "010"})
	require.NoError(t, err)
	b, err := r.Create(ctx, &models.User{Email: "b@x.com", Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	_, err = r.Create(ctx, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	img := "me.png"
	upd, err := r.UpdateProfile(ctx, a.ID, models.ProfileUpdate{Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "me.png", upd.Image)
	assert.Equal(t, "010", upd.Phone)

	// returned values are copies
	upd.Name = "changed"
	got, err = r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	require.NoError(t, r.UpdatePassword(ctx, a.ID, []byte("h2")))
	got, _ = r.GetByID(ctx, a.ID)
	assert.Equal(t, []byte("h2"), got.PasswordHash)

	require.NoError(t, r.Delete(ctx, a.ID))
	_, err = r.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Delete(ctx, a.ID), common.ErrorNotFound)
	assert.ErrorIs(t, r.UpdatePassword(ctx, a.ID, nil), common.ErrorNotFound)
	_, err = r.UpdateProfile(ctx, a.ID, models.ProfileUpdate{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// the email becomes available again
	c, err := r.Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}
