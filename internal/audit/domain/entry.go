// Package domain defines AuditEntry, the append-only record every terminal
// retrieval outcome writes.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// Result is the closed sum of terminal outcomes an audit entry can record.
type Result string

const (
	ResultAutoGranted    Result = "auto_granted"
	ResultHumanApproved  Result = "human_approved"
	ResultDeviceUnlocked Result = "device_unlocked"
	ResultDenied         Result = "denied"
	ResultExpired        Result = "expired"
	ResultError          Result = "error"
)

// Entry is one append-only audit record.
type Entry struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	SecretID  uuid.UUID
	Reason    string
	Tier      domain.Tier
	Result    Result
	CreatedAt time.Time
	LatencyMs *int64
	Proof     []byte // optional: the approval signature, when applicable
	Signature []byte // HMAC-SHA256 over the canonical encoding of this entry
}

// New constructs an Entry with a fresh ID; Signature is filled in afterward
// by the signer. now is the caller's injected clock, not read internally, so
// CreatedAt observes the same clock the coordinator used to measure latency.
func New(agentID, secretID uuid.UUID, reason string, tier domain.Tier, result Result, latencyMs int64, proof []byte, now time.Time) *Entry {
	return &Entry{
		ID:        uuid.Must(uuid.NewV7()),
		AgentID:   agentID,
		SecretID:  secretID,
		Reason:    reason,
		Tier:      tier,
		Result:    result,
		CreatedAt: now.UTC(),
		LatencyMs: &latencyMs,
		Proof:     proof,
	}
}
