// Package domain defines SecretMetadata: the server's only record of a
// secret's existence. The core never stores ciphertext or wrapped DEKs —
// those live in the agent's local vault.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tier governs how many independent parties must participate in decryption.
type Tier string

const (
	// TierRoutine is auto-granted: agent plus server.
	TierRoutine Tier = "routine"
	// TierSensitive requires explicit human consent via ApprovalMachine.
	TierSensitive Tier = "sensitive"
	// TierCritical requires a three-party handshake: agent, server, phone.
	TierCritical Tier = "critical"
)

// Valid reports whether t is one of the three closed tier variants.
func (t Tier) Valid() bool {
	switch t {
	case TierRoutine, TierSensitive, TierCritical:
		return true
	default:
		return false
	}
}

// Secret is the server's metadata record for a secret. (owning_agent, name)
// is unique. Tier is immutable after creation.
type Secret struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	AgentID   uuid.UUID
	Name      string
	Tier      Tier
	CreatedAt time.Time
}

// New constructs a Secret record. id is supplied by the registering agent
// (the core never mints secret identifiers itself, since the agent's local
// vault indexes its encrypted blob under the same value); tier must already
// be validated by the caller.
func New(id, tenantID, agentID uuid.UUID, name string, tier Tier) (*Secret, error) {
	if !tier.Valid() {
		return nil, ErrInvalidTier
	}
	return &Secret{
		ID:        id,
		TenantID:  tenantID,
		AgentID:   agentID,
		Name:      name,
		Tier:      tier,
		CreatedAt: time.Now().UTC(),
	}, nil
}
