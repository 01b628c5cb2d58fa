package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// SecretUseCase registers, lists, and removes secret metadata on behalf of
// an authenticated agent.
type SecretUseCase struct {
	repo Repository
}

// New constructs a SecretUseCase.
func New(repo Repository) *SecretUseCase {
	return &SecretUseCase{repo: repo}
}

// RegisterInput carries the inputs to Register.
type RegisterInput struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	AgentID  uuid.UUID
	Name     string
	Tier     domain.Tier
}

// Register declares metadata for a secret whose ciphertext lives entirely
// in the registering agent's local vault.
func (u *SecretUseCase) Register(ctx context.Context, in RegisterInput) (*domain.Secret, error) {
	s, err := domain.New(in.ID, in.TenantID, in.AgentID, in.Name, in.Tier)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListOwned returns every secret owned by agentID within tenantID.
func (u *SecretUseCase) ListOwned(ctx context.Context, tenantID, agentID uuid.UUID) ([]*domain.Secret, error) {
	return u.repo.ListByAgent(ctx, tenantID, agentID)
}

// Delete removes a secret's metadata. Fails with ErrNotOwner if agentID does
// not own it, ErrSecretNotFound if it doesn't exist.
func (u *SecretUseCase) Delete(ctx context.Context, tenantID, agentID, secretID uuid.UUID) error {
	s, err := u.repo.Get(ctx, tenantID, secretID)
	if err != nil {
		return err
	}
	if s.AgentID != agentID {
		return domain.ErrNotOwner
	}
	return u.repo.Delete(ctx, tenantID, secretID)
}
