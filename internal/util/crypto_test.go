package util

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)

		assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
		assert.False(t, CheckPasswordHash("wrong password", hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := HashPassword("same")
		require.NoError(t, err)
		h2, err := HashPassword("same")
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)
	})
}

func TestEncryption(t *testing.T) {
	key := hex.EncodeToString(make([]byte, 32))

	t.Run("round trip", func(t *testing.T) {
		encrypted, err := Encrypt(key, "sk-very-secret")
		require.NoError(t, err)
		assert.NotEqual(t, "sk-very-secret", encrypted)

		decrypted, err := Decrypt(key, encrypted)
		require.NoError(t, err)
		assert.Equal(t, "sk-very-secret", decrypted)
	})

	t.Run("rejects short keys", func(t *testing.T) {
		_, err := Encrypt("abcd", "plaintext")
		assert.Error(t, err)
	})

	t.Run("rejects tampered ciphertext", func(t *testing.T) {
		encrypted, err := Encrypt(key, "payload")
		require.NoError(t, err)

		_, err = Decrypt(key, "AAAA"+encrypted[4:])
		assert.Error(t, err)
	})
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("a3bb189e-8bf9-3888-9912-ace4e6543002"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("A3BB189E-8BF9-3888-9912-ACE4E6543002"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("dev@example.com"))
	assert.False(t, IsValidEmail("dev@example"))
	assert.False(t, IsValidEmail("not-an-email"))
}
