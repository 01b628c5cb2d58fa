package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/audit/domain"
	"github.com/dennisMeeQ/clavum/internal/audit/repository"
)

// AuditUseCase writes signed, append-only audit entries and serves an
// agent's own query over them.
type AuditUseCase struct {
	repo   Repository
	signer Signer
	keys   TenantKeyLookup
}

// New constructs an AuditUseCase.
func New(repo Repository, signer Signer, keys TenantKeyLookup) *AuditUseCase {
	return &AuditUseCase{repo: repo, signer: signer, keys: keys}
}

// Record signs and appends e. A signing or write failure surfaces as
// ErrWriteFailed: the coordinator must treat loss of audit as an internal
// error and not release key material in that case.
func (u *AuditUseCase) Record(ctx context.Context, tenantID uuid.UUID, e *domain.Entry) error {
	tenantKey, err := u.keys.ServerPrivateKey(ctx, tenantID)
	if err != nil {
		return domain.ErrWriteFailed
	}

	sig, err := u.signer.Sign(tenantKey, e)
	if err != nil {
		return domain.ErrWriteFailed
	}
	e.Signature = sig

	if err := u.repo.Append(ctx, e); err != nil {
		return err
	}
	return nil
}

// ListForAgent returns an agent's own audit entries, newest first.
func (u *AuditUseCase) ListForAgent(ctx context.Context, f repository.Filter) ([]*domain.Entry, error) {
	return u.repo.List(ctx, f)
}
