package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisMeeQ/clavum/internal/primitives"
	"github.com/dennisMeeQ/clavum/internal/secret/domain"
)

func TestGreenKEK_MutualAgreement(t *testing.T) {
	ephPriv, ephPub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	serverPriv, serverPub, err := primitives.X25519Keygen()
	require.NoError(t, err)

	salt, err := primitives.CSPRNG(32)
	require.NoError(t, err)

	clientKEK, err := GreenKEK(ephPriv, serverPub, salt, "sec-1")
	require.NoError(t, err)

	serverKEK, err := GreenKEK(serverPriv, ephPub, salt, "sec-1")
	require.NoError(t, err)

	assert.Equal(t, clientKEK, serverKEK)
	assert.Len(t, clientKEK, primitives.AESGCMKeySize)
}

func TestGreenKEK_Deterministic(t *testing.T) {
	priv, pub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	priv2, _, err := primitives.X25519Keygen()
	require.NoError(t, err)
	_ = priv2

	salt, err := primitives.CSPRNG(32)
	require.NoError(t, err)

	kek1, err := GreenKEK(priv, pub, salt, "sec-1")
	require.NoError(t, err)
	kek2, err := GreenKEK(priv, pub, salt, "sec-1")
	require.NoError(t, err)

	assert.Equal(t, kek1, kek2)
}

func TestGreenKEK_InputSensitivity(t *testing.T) {
	priv, pub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	salt, err := primitives.CSPRNG(32)
	require.NoError(t, err)

	base, err := GreenKEK(priv, pub, salt, "sec-1")
	require.NoError(t, err)

	t.Run("different secret id", func(t *testing.T) {
		other, err := GreenKEK(priv, pub, salt, "sec-2")
		require.NoError(t, err)
		assert.NotEqual(t, base, other)
	})

	t.Run("different salt", func(t *testing.T) {
		salt2, err := primitives.CSPRNG(32)
		require.NoError(t, err)
		other, err := GreenKEK(priv, pub, salt2, "sec-1")
		require.NoError(t, err)
		assert.NotEqual(t, base, other)
	})
}

func TestRedKEK_MutualAgreement(t *testing.T) {
	serverPriv, serverPub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	agentPriv, agentPub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	phonePriv, phonePub, err := primitives.X25519Keygen()
	require.NoError(t, err)
	_ = serverPub

	challenge, err := primitives.CSPRNG(64)
	require.NoError(t, err)

	kek, err := RedKEK(serverPriv, agentPub, phonePub, challenge, "sec-1")
	require.NoError(t, err)
	assert.Len(t, kek, primitives.AESGCMKeySize)

	_ = agentPriv
	_ = phonePriv
}

func TestWrapUnwrapDEK_RoundTrip(t *testing.T) {
	kek, err := primitives.CSPRNG(32)
	require.NoError(t, err)
	dek, err := primitives.CSPRNG(32)
	require.NoError(t, err)
	aad := AAD("sec-1", domain.TierRoutine, "agent-1")

	kekCopy := append([]byte(nil), kek...)
	ciphertext, iv, tag, err := WrapDEK(kekCopy, dek, aad)
	require.NoError(t, err)

	recovered, err := UnwrapDEK(append([]byte(nil), kek...), ciphertext, iv, aad, tag)
	require.NoError(t, err)
	assert.Equal(t, dek, recovered)
}

func TestUnwrapDEK_TamperDetection(t *testing.T) {
	kek, err := primitives.CSPRNG(32)
	require.NoError(t, err)
	dek, err := primitives.CSPRNG(32)
	require.NoError(t, err)
	aad := AAD("sec-1", domain.TierRoutine, "agent-1")

	ciphertext, iv, tag, err := WrapDEK(append([]byte(nil), kek...), dek, aad)
	require.NoError(t, err)

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte(nil), ciphertext...)
		tampered[0] ^= 0xFF
		_, err := UnwrapDEK(append([]byte(nil), kek...), tampered, iv, aad, tag)
		assert.ErrorIs(t, err, primitives.ErrCryptoFailure)
	})

	t.Run("tampered aad", func(t *testing.T) {
		_, err := UnwrapDEK(append([]byte(nil), kek...), ciphertext, iv, AAD("sec-1", domain.TierSensitive, "agent-1"), tag)
		assert.ErrorIs(t, err, primitives.ErrCryptoFailure)
	})
}

func TestAAD_Composition(t *testing.T) {
	aad := AAD("sec-1", domain.TierCritical, "agent-1")
	assert.Equal(t, "sec-1criticalagent-1", string(aad))
}

func TestEncryptDecryptSecret_RoundTrip(t *testing.T) {
	dek, err := primitives.CSPRNG(32)
	require.NoError(t, err)
	aad := AAD("sec-1", domain.TierRoutine, "agent-1")
	plaintext := []byte("super secret value")

	ciphertext, iv, tag, err := EncryptSecret(append([]byte(nil), dek...), plaintext, aad)
	require.NoError(t, err)

	recovered, err := DecryptSecret(append([]byte(nil), dek...), ciphertext, iv, aad, tag)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}
