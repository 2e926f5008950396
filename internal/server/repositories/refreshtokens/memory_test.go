package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	require.NoError(t, r.Create(ctx, 1, "a", time.Hour))
	require.NoError(t, r.Create(ctx, 1, "b", time.Hour))
	require.NoError(t, r.Create(ctx, 2, "c", -time.Second))

	rt, err := r.Find(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rt.UserID)
	assert.True(t, rt.Expires.Before(time.Now()))

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))
	_, err = r.Find(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.DeleteByUser(ctx, 1))
	_, err = r.Find(ctx, "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.Find(ctx, "c")
	assert.NoError(t, err)
}
