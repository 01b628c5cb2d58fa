package signing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisMeeQ/clavum/internal/primitives"
)

func TestRequestPayload_Canonicalization(t *testing.T) {
	payload := RequestPayload(1700000000000, "POST", "/api/secrets/register", []byte(`{"a":1}`))
	assert.Contains(t, string(payload), "1700000000000:POST:/api/secrets/register:")
}

func TestVerifyRequest_RoundTrip(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	now := time.Now()
	ts := now.UnixMilli()
	body := []byte(`{"secret_id":"sec-1"}`)

	sig, err := SignRequest(priv, ts, "POST", "/api/secrets/sec-1/retrieve", body)
	require.NoError(t, err)

	assert.True(t, VerifyRequest(pub, ts, "POST", "/api/secrets/sec-1/retrieve", body, sig, now, DefaultMaxAgeMillis))
}

func TestVerifyRequest_BoundaryAge(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	now := time.Now()
	ts := now.Add(-60 * time.Second).UnixMilli()
	body := []byte("")

	sig, err := SignRequest(priv, ts, "GET", "/api/secrets", body)
	require.NoError(t, err)

	assert.True(t, VerifyRequest(pub, ts, "GET", "/api/secrets", body, sig, now, DefaultMaxAgeMillis),
		"exactly 60000ms must still verify")

	tooOldTS := now.Add(-60*time.Second - time.Millisecond).UnixMilli()
	sig2, err := SignRequest(priv, tooOldTS, "GET", "/api/secrets", body)
	require.NoError(t, err)
	assert.False(t, VerifyRequest(pub, tooOldTS, "GET", "/api/secrets", body, sig2, now, DefaultMaxAgeMillis),
		"60001ms must fail")
}

func TestVerifyRequest_TamperedBodyFails(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	now := time.Now()
	ts := now.UnixMilli()
	sig, err := SignRequest(priv, ts, "POST", "/api/secrets/register", []byte("original"))
	require.NoError(t, err)

	assert.False(t, VerifyRequest(pub, ts, "POST", "/api/secrets/register", []byte("tampered"), sig, now, DefaultMaxAgeMillis))
}

func TestVerifyRequest_EmptyBodySigns(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	now := time.Now()
	ts := now.UnixMilli()
	sig, err := SignRequest(priv, ts, "GET", "/api/audit", nil)
	require.NoError(t, err)

	assert.True(t, VerifyRequest(pub, ts, "GET", "/api/audit", nil, sig, now, DefaultMaxAgeMillis))
}

func TestParseTimestampMillis(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, ok := ParseTimestampMillis("1700000000000")
		assert.True(t, ok)
		assert.Equal(t, int64(1700000000000), v)
	})

	t.Run("negative rejected", func(t *testing.T) {
		_, ok := ParseTimestampMillis("-1")
		assert.False(t, ok)
	})

	t.Run("non-numeric rejected", func(t *testing.T) {
		_, ok := ParseTimestampMillis("not-a-number")
		assert.False(t, ok)
	})
}
