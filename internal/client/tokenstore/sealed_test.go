package tokenstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainBackend hides any SetMany of the wrapped backend.
type plainBackend struct{ Backend }

func TestSealedBackend_StoresCiphertext(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryBackend()
	s := New(NewSealedBackend(inner, "pw"), DefaultPolicy(), logging.Nop())

	require.NoError(t, s.SetTokens(ctx, "A1", "R1"))

	raw, ok, err := inner.Get(ctx, string(KindAccess))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "A1", raw)
	assert.NotContains(t, raw, "A1")

	v, ok := s.AccessToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "A1", v)
}

func TestSealedBackend_WrongPassphraseReadsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "creds.bolt")

	b, err := OpenBolt(path)
	require.NoError(t, err)
	s := New(NewSealedBackend(b, "right"), DefaultPolicy(), logging.Nop())
	require.NoError(t, s.SetTokens(ctx, "A1", "R1"))
	require.NoError(t, s.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	s = New(NewSealedBackend(b, "wrong"), DefaultPolicy(), logging.Nop())
	defer s.Close()

	assert.False(t, s.HasSession(ctx))

	_, _, err = NewSealedBackend(b, "wrong").Get(ctx, string(KindAccess))
	assert.Error(t, err)
}

func TestSealedBackend_SwappedValuesDoNotOpen(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryBackend()
	sb := NewSealedBackend(inner, "pw")

	require.NoError(t, sb.Set(ctx, string(KindAccess), "A1", time.Hour))
	raw, _, _ := inner.Get(ctx, string(KindAccess))
	require.NoError(t, inner.Set(ctx, string(KindRefresh), raw, time.Hour))

	_, _, err := sb.Get(ctx, string(KindRefresh))
	assert.Error(t, err)
}

func TestSealedBackend_SetManyWithoutBatchSupport(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryBackend()
	sb := NewSealedBackend(plainBackend{inner}, "pw")

	require.NoError(t, sb.SetMany(ctx, []Entry{
		{Name: string(KindAccess), Value: "A1", TTL: time.Hour},
		{Name: string(KindRefresh), Value: "R1", TTL: time.Hour},
	}))

	v, ok, err := sb.Get(ctx, string(KindRefresh))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R1", v)

	require.NoError(t, sb.Clear(ctx))
	_, ok, err = sb.Get(ctx, string(KindAccess))
	require.NoError(t, err)
	assert.False(t, ok)
}
