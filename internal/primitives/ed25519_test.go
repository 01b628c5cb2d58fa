package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519SignVerifyRoundTrip(t *testing.T) {
	priv, pub, err := Ed25519Keygen()
	require.NoError(t, err)

	msg := []byte("clavum request payload")
	sig, err := Ed25519Sign(priv, msg)
	require.NoError(t, err)
	assert.Len(t, sig, Ed25519SignatureSize)

	assert.True(t, Ed25519Verify(pub, msg, sig))
}

func TestEd25519Verify_TamperedMessage(t *testing.T) {
	priv, pub, err := Ed25519Keygen()
	require.NoError(t, err)

	sig, err := Ed25519Sign(priv, []byte("original"))
	require.NoError(t, err)

	assert.False(t, Ed25519Verify(pub, []byte("tampered"), sig))
}

func TestEd25519Verify_MalformedInputsReturnFalse(t *testing.T) {
	assert.False(t, Ed25519Verify([]byte("short"), []byte("msg"), []byte("sig")))
}

func TestEd25519Sign_Deterministic(t *testing.T) {
	priv, _, err := Ed25519Keygen()
	require.NoError(t, err)

	msg := []byte("same message")
	sig1, err := Ed25519Sign(priv, msg)
	require.NoError(t, err)
	sig2, err := Ed25519Sign(priv, msg)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
}
