// Package domain defines the Tenant isolation boundary: every agent, phone,
// secret, approval, and audit entry is scoped to exactly one tenant.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/primitives"
)

// Tenant owns one long-lived X25519 keypair, generated once at creation. The
// public half is distributed to agents and phones during pairing; the
// private half never leaves the tenant record.
type Tenant struct {
	ID         uuid.UUID
	Name       string
	ServerPub  []byte // 32 bytes, safe to expose
	ServerPriv []byte // 32 bytes, never serialized to API responses
	CreatedAt  time.Time
}

// New creates a Tenant with a freshly generated X25519 keypair.
func New(name string) (*Tenant, error) {
	priv, pub, err := primitives.X25519Keygen()
	if err != nil {
		return nil, err
	}

	return &Tenant{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       name,
		ServerPub:  pub,
		ServerPriv: priv,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Zero wipes the tenant's private key material from memory.
func (t *Tenant) Zero() {
	primitives.Zero(t.ServerPriv)
}
