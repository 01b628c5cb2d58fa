// Package usecase implements the AuthGate pipeline shared by agent- and
// phone-authenticated traffic.
package usecase

import (
	"context"
	"time"

	"github.com/dennisMeeQ/clavum/internal/authgate/domain"
)

// IdentityLookup resolves a principal's registered Ed25519 public key and
// tenant. A miss must be indistinguishable from any other authentication
// failure to the caller, so implementations return domain.ErrUnauthenticated
// on a miss rather than a NotFound kind.
type IdentityLookup interface {
	LookupAgent(ctx context.Context, agentID string) (tenantID string, ed25519Pub []byte, err error)
	LookupPhone(ctx context.Context, phoneID string) (tenantID string, ed25519Pub []byte, err error)
}

// NonceRepository is the replay-protection store AuthGate writes to on every
// successful signature verification.
type NonceRepository interface {
	TryInsert(ctx context.Context, digest []byte, expiresAt time.Time) (bool, error)
}

// Request carries everything AuthGate needs from one inbound HTTP call.
type Request struct {
	Kind      domain.IdentityKind
	IdentityID string
	TimestampHeader string
	SignatureB64URL string
	Method    string
	Path      string
	Body      []byte
}
