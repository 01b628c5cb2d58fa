package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/approval/domain"
	"github.com/dennisMeeQ/clavum/internal/signing"
)

// ApprovalMachine creates, approves, rejects, and lazily expires sensitive-
// tier approval records, enforcing that pending is the only state from
// which a transition can still occur.
type ApprovalMachine struct {
	repo  Repository
	keys  PhoneKeyLookup
	clock func() time.Time
}

// New constructs an ApprovalMachine.
func New(repo Repository, keys PhoneKeyLookup) *ApprovalMachine {
	return &ApprovalMachine{repo: repo, keys: keys, clock: time.Now}
}

// CreateInput carries the inputs to Create. EphX25519Pub and KEKSalt are
// only meaningful for sensitive-tier retrievals and are nil otherwise.
type CreateInput struct {
	PhoneID      uuid.UUID
	SecretID     uuid.UUID
	Reason       string
	TimeoutMs    int64
	EphX25519Pub []byte
	KEKSalt      []byte
}

// Create builds the approval challenge, stores it verbatim, and returns the
// created pending record.
func (m *ApprovalMachine) Create(ctx context.Context, in CreateInput) (*domain.Approval, error) {
	challenge, err := signing.BuildChallenge(nil, in.SecretID.String(), in.Reason)
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if in.TimeoutMs > 0 {
		timeout = time.Duration(in.TimeoutMs) * time.Millisecond
	}

	approval := domain.New(in.PhoneID, in.SecretID, in.Reason, challenge, timeout, in.EphX25519Pub, in.KEKSalt, m.clock())
	if err := m.repo.Create(ctx, approval); err != nil {
		return nil, err
	}
	return approval, nil
}

// Approve verifies the phone's signature over the stored challenge and
// transitions the record to approved. Checks run in the order the spec
// fixes: missing, already resolved, expired, invalid signature, then the
// atomic transition itself.
func (m *ApprovalMachine) Approve(ctx context.Context, approvalID uuid.UUID, signature []byte) (*domain.Approval, error) {
	approval, err := m.repo.Get(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	if approval.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyResolved
	}

	now := m.clock()
	if approval.PastDeadline(now) {
		_ = m.repo.LazyExpireOne(ctx, approvalID, now)
		return nil, domain.ErrExpired
	}

	phonePub, err := m.keys.Ed25519Pub(ctx, approval.PhoneID)
	if err != nil {
		return nil, err
	}

	if !signing.VerifyApproval(phonePub, approval.Challenge, signature) {
		return nil, domain.ErrInvalidSignature
	}

	ok, err := m.repo.TryTransition(ctx, approvalID, domain.StatusApproved, now, signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyResolved
	}

	approval.Status = domain.StatusApproved
	approval.RespondedAt = &now
	approval.ApprovalSignature = signature
	return approval, nil
}

// Reject transitions a pending approval to denied.
func (m *ApprovalMachine) Reject(ctx context.Context, approvalID uuid.UUID) (*domain.Approval, error) {
	approval, err := m.repo.Get(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	if approval.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyResolved
	}

	now := m.clock()
	if approval.PastDeadline(now) {
		_ = m.repo.LazyExpireOne(ctx, approvalID, now)
		return nil, domain.ErrExpired
	}

	ok, err := m.repo.TryTransition(ctx, approvalID, domain.StatusDenied, now, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyResolved
	}

	approval.Status = domain.StatusDenied
	approval.RespondedAt = &now
	return approval, nil
}

// ListPendingForTenant lazy-expires every past-deadline approval belonging
// to tenantID in one bulk update, then returns the remaining pending set
// ordered by creation time.
func (m *ApprovalMachine) ListPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Approval, error) {
	now := m.clock()
	if err := m.repo.LazyExpireTenant(ctx, tenantID, now); err != nil {
		return nil, err
	}
	return m.repo.ListPendingForTenant(ctx, tenantID)
}

// GetStatus lazy-expires the record if past deadline, then returns it.
func (m *ApprovalMachine) GetStatus(ctx context.Context, approvalID uuid.UUID) (*domain.Approval, error) {
	approval, err := m.repo.Get(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	now := m.clock()
	if approval.Status == domain.StatusPending && approval.PastDeadline(now) {
		if err := m.repo.LazyExpireOne(ctx, approvalID, now); err != nil {
			return nil, err
		}
		approval.Status = domain.StatusExpired
		approval.RespondedAt = &now
	}
	return approval, nil
}
