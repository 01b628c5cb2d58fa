// Package usecase implements ApprovalMachine: the sensitive tier's
// human-consent state machine.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/approval/domain"
)

// Repository is the persistence contract ApprovalMachine depends on.
type Repository interface {
	Create(ctx context.Context, a *domain.Approval) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Approval, error)
	TryTransition(ctx context.Context, id uuid.UUID, toStatus domain.Status, respondedAt time.Time, approvalSignature []byte) (bool, error)
	LazyExpireOne(ctx context.Context, id uuid.UUID, now time.Time) error
	LazyExpireTenant(ctx context.Context, tenantID uuid.UUID, now time.Time) error
	ListPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Approval, error)
}

// PhoneKeyLookup resolves a phone's registered Ed25519 public key, used to
// verify an approval signature.
type PhoneKeyLookup interface {
	Ed25519Pub(ctx context.Context, phoneID uuid.UUID) ([]byte, error)
}
