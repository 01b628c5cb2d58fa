package usecase

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/dennisMeeQ/clavum/internal/authgate/domain"
	"github.com/dennisMeeQ/clavum/internal/primitives"
	"github.com/dennisMeeQ/clavum/internal/signing"
)

// AuthGate authenticates and replay-protects inbound agent and phone
// traffic. It is indifferent to the request handler: every caller, agent or
// phone, runs the same five checks in the same order.
type AuthGate struct {
	identities       IdentityLookup
	nonces           NonceRepository
	maxAgeMillis     int64
	nonceTTLMultiple int64
	now              func() time.Time
}

// New constructs an AuthGate. maxAgeMillis defaults to
// signing.DefaultMaxAgeMillis when zero; nonceTTLMultiple defaults to 2 when
// zero, mirroring the NONCE_TTL_MULTIPLIER configuration knob.
func New(identities IdentityLookup, nonces NonceRepository, maxAgeMillis, nonceTTLMultiple int64) *AuthGate {
	if maxAgeMillis <= 0 {
		maxAgeMillis = signing.DefaultMaxAgeMillis
	}
	if nonceTTLMultiple <= 0 {
		nonceTTLMultiple = 2
	}
	return &AuthGate{
		identities:       identities,
		nonces:           nonces,
		maxAgeMillis:     maxAgeMillis,
		nonceTTLMultiple: nonceTTLMultiple,
		now:              time.Now,
	}
}

// Authenticate runs the full AuthGate pipeline for one inbound request and
// returns the bound identity on success.
func (g *AuthGate) Authenticate(ctx context.Context, req Request) (*domain.Identity, error) {
	if req.IdentityID == "" || req.TimestampHeader == "" || req.SignatureB64URL == "" {
		return nil, domain.ErrUnauthenticated
	}

	sig, err := base64.RawURLEncoding.DecodeString(req.SignatureB64URL)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	ts, ok := signing.ParseTimestampMillis(req.TimestampHeader)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	var tenantID string
	var pub []byte
	switch req.Kind {
	case domain.IdentityAgent:
		tenantID, pub, err = g.identities.LookupAgent(ctx, req.IdentityID)
	case domain.IdentityPhone:
		tenantID, pub, err = g.identities.LookupPhone(ctx, req.IdentityID)
	default:
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	now := g.now()
	if !signing.VerifyRequest(pub, ts, req.Method, req.Path, req.Body, sig, now, g.maxAgeMillis) {
		return nil, domain.ErrUnauthenticated
	}

	digest := primitives.SHA256(sig)
	ttl := time.Duration(g.nonceTTLMultiple) * time.Duration(g.maxAgeMillis) * time.Millisecond
	inserted, err := g.nonces.TryInsert(ctx, digest, now.Add(ttl))
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, domain.ErrReplayed
	}

	return &domain.Identity{Kind: req.Kind, ID: req.IdentityID, TenantID: tenantID}, nil
}
