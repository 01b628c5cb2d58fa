// Package domain defines the Agent identity: a paired machine holding one
// X25519 keypair (for ECDH with the server) and one Ed25519 keypair (for
// request signing). The server stores only the public halves.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/primitives"
)

// Agent is a paired machine identity, scoped to exactly one tenant.
type Agent struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	X25519Pub  []byte // 32 bytes, used for the green-flow ECDH
	Ed25519Pub []byte // 32 bytes, used to verify request signatures
	CreatedAt  time.Time
}

// New registers an agent from key material generated on the agent's own
// device; the server never sees the corresponding private keys.
func New(tenantID uuid.UUID, name string, x25519Pub, ed25519Pub []byte) (*Agent, error) {
	if len(x25519Pub) != primitives.X25519KeySize {
		return nil, ErrInvalidX25519Key
	}
	if len(ed25519Pub) != primitives.Ed25519PublicKeySize {
		return nil, ErrInvalidEd25519Key
	}

	return &Agent{
		ID:         uuid.Must(uuid.NewV7()),
		TenantID:   tenantID,
		Name:       name,
		X25519Pub:  x25519Pub,
		Ed25519Pub: ed25519Pub,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
