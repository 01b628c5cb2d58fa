// Package domain defines the Phone identity: the human approver's device,
// holding one X25519 keypair (for the red flow's two-party ECDH) and one
// Ed25519 keypair (for signing approval decisions). Exactly one phone may be
// paired per tenant.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/primitives"
)

// Phone is the human approver's paired device, scoped to exactly one tenant.
type Phone struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	X25519Pub  []byte // 32 bytes, used for the red-flow two-party ECDH
	Ed25519Pub []byte // 32 bytes, used to verify approval signatures
	CreatedAt  time.Time
}

// New registers a phone from key material generated on the device itself;
// the server never sees the corresponding private keys.
func New(tenantID uuid.UUID, name string, x25519Pub, ed25519Pub []byte) (*Phone, error) {
	if len(x25519Pub) != primitives.X25519KeySize {
		return nil, ErrInvalidX25519Key
	}
	if len(ed25519Pub) != primitives.Ed25519PublicKeySize {
		return nil, ErrInvalidEd25519Key
	}

	return &Phone{
		ID:         uuid.Must(uuid.NewV7()),
		TenantID:   tenantID,
		Name:       name,
		X25519Pub:  x25519Pub,
		Ed25519Pub: ed25519Pub,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
