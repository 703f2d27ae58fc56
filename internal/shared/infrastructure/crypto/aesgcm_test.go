package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestNewAESGCMFromBase64Key(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		enc, err := NewAESGCMFromBase64Key(testKey())
		require.NoError(t, err)
		assert.NotNil(t, enc)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := NewAESGCMFromBase64Key("")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := NewAESGCMFromBase64Key("not base64!!")
		assert.Error(t, err)
	})

	t.Run("short key", func(t *testing.T) {
		_, err := NewAESGCMFromBase64Key(base64.StdEncoding.EncodeToString([]byte("short")))
		assert.ErrorIs(t, err, ErrKeySize)
	})
}

func TestAESEncrypter_RoundTrip(t *testing.T) {
	enc, err := NewAESGCMFromBase64Key(testKey())
	require.NoError(t, err)
	aad := []byte("7/abc-a.txt")

	sealed, err := enc.Encrypt([]byte("code,name\nC-1,Acme\n"), aad)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "Acme")

	opened, err := enc.Decrypt(sealed, aad)
	require.NoError(t, err)
	assert.Equal(t, "code,name\nC-1,Acme\n", string(opened))
}

func TestAESEncrypter_RejectsWrongContext(t *testing.T) {
	enc, err := NewAESGCMFromBase64Key(testKey())
	require.NoError(t, err)

	sealed, err := enc.Encrypt([]byte("abc"), []byte("7/a.txt"))
	require.NoError(t, err)

	_, err = enc.Decrypt(sealed, []byte("8/a.txt"))
	assert.Error(t, err)

	_, err = enc.Decrypt([]byte{1, 2}, nil)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestAESEncrypter_UniqueNonces(t *testing.T) {
	enc, err := NewAESGCMFromBase64Key(testKey())
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("same"), nil)
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
