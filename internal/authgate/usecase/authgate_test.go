package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dennisMeeQ/clavum/internal/authgate/domain"
	"github.com/dennisMeeQ/clavum/internal/primitives"
	"github.com/dennisMeeQ/clavum/internal/signing"
)

type mockIdentityLookup struct {
	mock.Mock
}

func (m *mockIdentityLookup) LookupAgent(ctx context.Context, agentID string) (string, []byte, error) {
	args := m.Called(ctx, agentID)
	var pub []byte
	if args.Get(1) != nil {
		pub = args.Get(1).([]byte)
	}
	return args.String(0), pub, args.Error(2)
}

func (m *mockIdentityLookup) LookupPhone(ctx context.Context, phoneID string) (string, []byte, error) {
	args := m.Called(ctx, phoneID)
	var pub []byte
	if args.Get(1) != nil {
		pub = args.Get(1).([]byte)
	}
	return args.String(0), pub, args.Error(2)
}

type mockNonceRepository struct {
	mock.Mock
}

func (m *mockNonceRepository) TryInsert(ctx context.Context, digest []byte, expiresAt time.Time) (bool, error) {
	args := m.Called(ctx, digest, expiresAt)
	return args.Bool(0), args.Error(1)
}

func millisStr(ms int64) string {
	return strconv.FormatInt(ms, 10)
}

func TestAuthGate_Authenticate_Success(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	now := time.Now().UnixMilli()
	body := []byte(`{"reason":"ci deploy"}`)
	sig, err := signing.SignRequest(priv, now, "POST", "/api/secrets/sec-1/retrieve", body)
	require.NoError(t, err)

	identities := new(mockIdentityLookup)
	identities.On("LookupAgent", mock.Anything, "agent-1").Return("tenant-1", pub, nil)

	nonces := new(mockNonceRepository)
	nonces.On("TryInsert", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	gate := New(identities, nonces, signing.DefaultMaxAgeMillis, 2)
	req := Request{
		Kind:            domain.IdentityAgent,
		IdentityID:      "agent-1",
		TimestampHeader: millisStr(now),
		SignatureB64URL: base64.RawURLEncoding.EncodeToString(sig),
		Method:          "POST",
		Path:            "/api/secrets/sec-1/retrieve",
		Body:            body,
	}

	identity, err := gate.Authenticate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", identity.ID)
	assert.Equal(t, "tenant-1", identity.TenantID)
}

func TestAuthGate_Authenticate_MissingHeaders(t *testing.T) {
	gate := New(new(mockIdentityLookup), new(mockNonceRepository), 0, 0)

	_, err := gate.Authenticate(context.Background(), Request{Kind: domain.IdentityAgent})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthGate_Authenticate_UnknownIdentity(t *testing.T) {
	identities := new(mockIdentityLookup)
	identities.On("LookupAgent", mock.Anything, "ghost").Return("", nil, errors.New("no rows"))

	gate := New(identities, new(mockNonceRepository), signing.DefaultMaxAgeMillis, 2)
	req := Request{
		Kind:            domain.IdentityAgent,
		IdentityID:      "ghost",
		TimestampHeader: millisStr(time.Now().UnixMilli()),
		SignatureB64URL: base64.RawURLEncoding.EncodeToString([]byte("not-a-real-64-byte-signature-but-decodes-fine-as-base64url!!")),
		Method:          "GET",
		Path:            "/api/secrets",
	}

	_, err := gate.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthGate_Authenticate_BadSignatureEncoding(t *testing.T) {
	_, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	identities := new(mockIdentityLookup)
	identities.On("LookupAgent", mock.Anything, "agent-1").Return("tenant-1", pub, nil).Maybe()

	gate := New(identities, new(mockNonceRepository), signing.DefaultMaxAgeMillis, 2)
	req := Request{
		Kind:            domain.IdentityAgent,
		IdentityID:      "agent-1",
		TimestampHeader: millisStr(time.Now().UnixMilli()),
		SignatureB64URL: "not valid base64url!!!",
		Method:          "GET",
		Path:            "/api/secrets",
	}

	_, err = gate.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthGate_Authenticate_StaleTimestamp(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Minute).UnixMilli()
	sig, err := signing.SignRequest(priv, old, "GET", "/api/secrets", nil)
	require.NoError(t, err)

	identities := new(mockIdentityLookup)
	identities.On("LookupAgent", mock.Anything, "agent-1").Return("tenant-1", pub, nil)

	gate := New(identities, new(mockNonceRepository), signing.DefaultMaxAgeMillis, 2)
	req := Request{
		Kind:            domain.IdentityAgent,
		IdentityID:      "agent-1",
		TimestampHeader: millisStr(old),
		SignatureB64URL: base64.RawURLEncoding.EncodeToString(sig),
		Method:          "GET",
		Path:            "/api/secrets",
	}

	_, err = gate.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthGate_Authenticate_Replayed(t *testing.T) {
	priv, pub, err := primitives.Ed25519Keygen()
	require.NoError(t, err)

	now := time.Now().UnixMilli()
	sig, err := signing.SignRequest(priv, now, "GET", "/api/secrets", nil)
	require.NoError(t, err)

	identities := new(mockIdentityLookup)
	identities.On("LookupAgent", mock.Anything, "agent-1").Return("tenant-1", pub, nil)

	nonces := new(mockNonceRepository)
	nonces.On("TryInsert", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	gate := New(identities, nonces, signing.DefaultMaxAgeMillis, 2)
	req := Request{
		Kind:            domain.IdentityAgent,
		IdentityID:      "agent-1",
		TimestampHeader: millisStr(now),
		SignatureB64URL: base64.RawURLEncoding.EncodeToString(sig),
		Method:          "GET",
		Path:            "/api/secrets",
	}

	_, err = gate.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrReplayed)
}
