package symmetric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_RejectsUnsupportedFormat(t *testing.T) {
	_, err := NewPool("192", 1_800_000)
	assert.Error(t, err)
}

func TestPool_Find_GeneratesWhenEmpty(t *testing.T) {
	pool, err := NewPool("256", 1_800_000)
	require.NoError(t, err)

	k, err := pool.Find()
	require.NoError(t, err)
	assert.True(t, k.IsActive())
	assert.Len(t, k.Raw, 32)
}

func TestPool_Find_ReturnsFirstActive(t *testing.T) {
	pool, err := NewPool("128", 1_800_000)
	require.NoError(t, err)

	first, err := pool.GenerateNew()
	require.NoError(t, err)

	found, err := pool.Find()
	require.NoError(t, err)
	assert.Equal(t, first.Raw, found.Raw)
}

func TestPool_Find_RegeneratesWhenExhausted(t *testing.T) {
	pool, err := NewPool("128", 0) // expires immediately
	require.NoError(t, err)

	stale, err := pool.GenerateNew()
	require.NoError(t, err)
	assert.False(t, stale.IsActive())

	fresh, err := pool.Find()
	require.NoError(t, err)
	assert.NotEqual(t, stale.Raw, fresh.Raw)
	assert.Len(t, pool.entries, 2, "stale key must remain in the append-only pool")
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	pool, err := NewPool("256", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	var engine Engine
	framed, err := engine.Encrypt([]byte("ping"), key)
	require.NoError(t, err)

	plain, err := engine.Decrypt(framed, key)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(plain))
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	pool, err := NewPool("256", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)
	other, err := pool.GenerateNew()
	require.NoError(t, err)

	var engine Engine
	framed, err := engine.Encrypt([]byte("ping"), key)
	require.NoError(t, err)

	_, err = engine.Decrypt(framed, other)
	assert.Error(t, err)
}

func TestDecrypt_SingleFragmentIsSoftFail(t *testing.T) {
	pool, err := NewPool("256", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	var engine Engine
	framed, err := engine.Encrypt([]byte("ping"), key)
	require.NoError(t, err)

	parts := strings.SplitN(framed, ";", 2)
	require.Len(t, parts, 2)

	// Known soft-fail: a single fragment (ciphertext only, no nonce) must
	// fail cleanly rather than panic.
	_, err = engine.Decrypt(parts[1], key)
	assert.Error(t, err)
}

func TestEncrypt_NonceIsUniquePerMessage(t *testing.T) {
	pool, err := NewPool("128", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	var engine Engine
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		framed, err := engine.Encrypt([]byte("ping"), key)
		require.NoError(t, err)
		nonce := strings.SplitN(framed, ";", 2)[0]
		assert.False(t, seen[nonce], "nonce collision")
		seen[nonce] = true
	}
}

func TestSelfTest_Passes(t *testing.T) {
	pool, err := NewPool("256", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	var engine Engine
	assert.NoError(t, engine.SelfTest(key))
}

func TestParseFormat_RejectsUnsupported(t *testing.T) {
	_, err := ParseFormat("192")
	assert.Error(t, err)
	_, err = ParseFormat("256")
	assert.NoError(t, err)
}
