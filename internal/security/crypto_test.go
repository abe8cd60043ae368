package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineSignVerify(t *testing.T) {
	for _, mode := range []Mode{ModeHMACSHA256, ModeHMACSHA3256} {
		t.Run(string(mode), func(t *testing.T) {
			engine, err := NewEngine(mode)
			require.NoError(t, err)
			assert.Equal(t, string(mode), engine.Algorithm())

			msg := []byte("payload under protection")
			sig := engine.Sign(msg, []byte("node-secret"))
			assert.NotEmpty(t, sig)

			assert.True(t, engine.Verify(msg, sig, []byte("node-secret")))
			assert.False(t, engine.Verify(msg, sig, []byte("wrong-secret")))
			assert.False(t, engine.Verify([]byte("tampered"), sig, []byte("node-secret")))
		})
	}
}

func TestEngineModesProduceDifferentDigests(t *testing.T) {
	sha2, err := NewEngine(ModeHMACSHA256)
	require.NoError(t, err)
	sha3, err := NewEngine(ModeHMACSHA3256)
	require.NoError(t, err)

	msg := []byte("same input")
	assert.NotEqual(t, sha2.Sign(msg, []byte("k")), sha3.Sign(msg, []byte("k")))
}

func TestNewEngineRejectsUnknownMode(t *testing.T) {
	_, err := NewEngine(Mode("ROT13"))
	assert.Error(t, err)
}

func TestModeFromEnv(t *testing.T) {
	t.Setenv("CRYPTO_MODE", "HMAC_SHA3_256")
	assert.Equal(t, ModeHMACSHA3256, ModeFromEnv())

	// Unknown or empty values fall back to HMAC_SHA256.
	t.Setenv("CRYPTO_MODE", "HMAC_MD5")
	assert.Equal(t, ModeHMACSHA256, ModeFromEnv())
	t.Setenv("CRYPTO_MODE", "")
	assert.Equal(t, ModeHMACSHA256, ModeFromEnv())
}
