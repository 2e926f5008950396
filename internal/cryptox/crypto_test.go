package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))
	k2 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))

	assert.Len(t, k1, KeySize)
	assert.True(t, bytes.Equal(k1, k2))
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	base := DeriveKey([]byte("secret-password"), []byte("salt-1"))

	assert.NotEqual(t, base, DeriveKey([]byte("secret-password"), []byte("salt-2")))
	assert.NotEqual(t, base, DeriveKey([]byte("other-password"), []byte("salt-1")))
}

func TestSealOpen(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	a, err := Seal([]byte("token-value"), []byte("accessToken"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("token-value"), []byte("accessToken"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per seal")
	assert.NotContains(t, a, "token-value")

	got, err := Open(a, []byte("accessToken"), key)
	require.NoError(t, err)
	assert.Equal(t, "token-value", string(got))
}

func TestOpen_Rejects(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	sealed, err := Seal([]byte("v"), []byte("name"), key)
	require.NoError(t, err)

	_, err = Open(sealed, []byte("name"), DeriveKey([]byte("other"), []byte("salt")))
	assert.Error(t, err, "wrong key")

	_, err = Open(sealed, []byte("other-name"), key)
	assert.Error(t, err, "value moved to another name")

	_, err = Open("!!not base64!!", nil, key)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Open("AAAA", nil, key)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Seal([]byte("v"), nil, []byte("short"))
	assert.Error(t, err)
}
