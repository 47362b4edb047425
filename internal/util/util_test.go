package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptGCM(t *testing.T) {
	key, err := RandomBytes(AESKeySize)
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox")

	sealed, err := EncryptGCM(plaintext, key, nil)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := DecryptGCM(sealed, key, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptGCM_AADBinding(t *testing.T) {
	key, err := RandomBytes(AESKeySize)
	require.NoError(t, err)

	sealed, err := EncryptGCM([]byte("payload"), key, []byte("key-a"))
	require.NoError(t, err)

	_, err = DecryptGCM(sealed, key, []byte("key-b"))
	assert.Error(t, err)
}

func TestEncryptGCM_RejectsBadKeySize(t *testing.T) {
	_, err := EncryptGCM([]byte("x"), []byte("short"), nil)
	assert.Error(t, err)

	_, err = DecryptGCM([]byte("x"), []byte("short"), nil)
	assert.Error(t, err)
}

func TestDecryptGCM_TruncatedInput(t *testing.T) {
	key, err := RandomBytes(AESKeySize)
	require.NoError(t, err)

	_, err = DecryptGCM([]byte{0x01, 0x02}, key, nil)
	assert.Error(t, err)
}

func TestHKDF_Deterministic(t *testing.T) {
	seed := []byte("seed material")

	k1, err := HKDF(seed, []byte("salt"), []byte("info"))
	require.NoError(t, err)
	k2, err := HKDF(seed, []byte("salt"), []byte("info"))
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, HKDFKeyLength)

	k3, err := HKDF(seed, []byte("salt"), []byte("other"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestStretchArgon2id(t *testing.T) {
	params := DefaultArgon2idParams()
	params.MemoryKiB = 1024 // keep the test fast

	k1, err := StretchArgon2id("app-secret", []byte("salt-a"), params)
	require.NoError(t, err)
	k2, err := StretchArgon2id("app-secret", []byte("salt-a"), params)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := StretchArgon2id("app-secret", []byte("salt-b"), params)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestRandomToken(t *testing.T) {
	t1, err := RandomToken(32)
	require.NoError(t, err)
	t2, err := RandomToken(32)
	require.NoError(t, err)

	assert.Len(t, t1, 64)
	assert.NotEqual(t, t1, t2)
}

func TestB64RoundTrip(t *testing.T) {
	in := []byte{0, 1, 2, 250, 251, 252}
	out, err := B64Decode(B64Encode(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWipeBytes(t *testing.T) {
	b := []byte{1, 2, 3}
	WipeBytes(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
