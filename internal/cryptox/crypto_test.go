package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicAndSized(t *testing.T) {
	k1 := DeriveKey([]byte("pass"), []byte("salt-salt"))
	k2 := DeriveKey([]byte("pass"), []byte("salt-salt"))
	k3 := DeriveKey([]byte("pass"), []byte("other-salt"))

	require.Len(t, k1, KeySize)
	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))
	plain := []byte("eyJhbGciOiJIUzI1NiJ9.payload.sig")

	sealed, err := Seal(plain, key)
	require.NoError(t, err)
	require.False(t, bytes.Contains(sealed, plain))

	got, err := Open(sealed, key)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))
	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealed, err := Seal([]byte("x"), DeriveKey([]byte("a"), []byte("salt")))
	require.NoError(t, err)

	_, err = Open(sealed, DeriveKey([]byte("b"), []byte("salt")))
	require.Error(t, err)
}

func TestOpen_TamperedFails(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))
	sealed, err := Seal([]byte("payload"), key)
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = Open(sealed, key)
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))
	_, err := Open([]byte{1, 2, 3}, key)
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}
