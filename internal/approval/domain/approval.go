// Package domain defines ApprovalRequest and its status lifecycle, the
// sensitive tier's human-consent record.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed sum of states an approval can be in. pending is the
// only non-terminal member; transitions out of it are exhaustive-match
// obligations for every caller.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
	StatusExpired  Status = "expired"
)

// Terminal reports whether s is one of the three states from which no
// further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied || s == StatusExpired
}

// DefaultTimeout is the approval lifetime when the caller supplies none.
const DefaultTimeout = 300 * time.Second

// Approval is one sensitive- or critical-tier consent record. challenge_bytes
// is fixed at creation and never rewritten.
//
// EphX25519Pub and KEKSalt carry the retrieval request's original green-flow
// parameters forward from creation to the poll that follows approval, since
// the poll endpoint takes no body: the coordinator re-derives GreenKEK at
// poll time using the same inputs the agent supplied at retrieval. Both are
// nil for critical-tier approvals, whose KEK derivation salts on the
// challenge instead and needs neither.
type Approval struct {
	ID                uuid.UUID
	PhoneID           uuid.UUID
	SecretID          uuid.UUID
	Reason            string
	Challenge         []byte
	Status            Status
	CreatedAt         time.Time
	ExpiresAt         time.Time
	RespondedAt       *time.Time
	ApprovalSignature []byte
	EphX25519Pub      []byte
	KEKSalt           []byte
}

// New constructs a pending Approval with challenge fixed at creation. now is
// the machine's injected clock, not read internally, so CreatedAt/ExpiresAt
// observe the same clock as every later expiry check.
func New(phoneID, secretID uuid.UUID, reason string, challenge []byte, timeout time.Duration, ephX25519Pub, kekSalt []byte, now time.Time) *Approval {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now = now.UTC()
	return &Approval{
		ID:           uuid.Must(uuid.NewV7()),
		PhoneID:      phoneID,
		SecretID:     secretID,
		Reason:       reason,
		Challenge:    challenge,
		Status:       StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(timeout),
		EphX25519Pub: ephX25519Pub,
		KEKSalt:      kekSalt,
	}
}

// PastDeadline reports whether now is at or after the approval's expires_at;
// an approval is expired exactly at the deadline, not only strictly after it.
func (a *Approval) PastDeadline(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}
