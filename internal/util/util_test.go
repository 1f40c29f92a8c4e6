package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := RandomBytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two draws should differ")
}

func TestRandomToken(t *testing.T) {
	tok, err := RandomToken(32)
	require.NoError(t, err)
	// 32 bytes -> 43 base64url chars without padding.
	assert.Len(t, tok, 43)
	assert.NotContains(t, tok, "=")

	other, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestArgon2idRoundTrip(t *testing.T) {
	salt, err := RandomBytes(16)
	require.NoError(t, err)
	params := DefaultArgon2idParams()

	key, err := DeriveArgon2idKey("correct-horse", salt, params)
	require.NoError(t, err)
	require.Len(t, key, 32)

	ok, err := CompareArgon2idKey("correct-horse", salt, params, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CompareArgon2idKey("wrong", salt, params, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2idRejectsBadKeyLen(t *testing.T) {
	params := DefaultArgon2idParams()
	params.KeyLen = 16
	_, err := DeriveArgon2idKey("pw", []byte("salt"), params)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	// Precomposed U+00E9 and e + combining acute must normalize identically.
	assert.Equal(t, Normalize("caf\u00e9"), Normalize("cafe\u0301"))
}
