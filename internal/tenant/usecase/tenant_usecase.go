// Package usecase implements tenant provisioning: creating the isolation
// boundary every agent, phone, secret, approval, and audit entry is scoped
// to, and generating its long-lived server X25519 keypair.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/tenant/domain"
)

// Repository is the persistence contract this usecase depends on.
type Repository interface {
	Create(ctx context.Context, t *domain.Tenant) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

// TenantUseCase creates and resolves tenants.
type TenantUseCase struct {
	repo Repository
}

// New constructs a TenantUseCase.
func New(repo Repository) *TenantUseCase {
	return &TenantUseCase{repo: repo}
}

// Create generates a fresh server X25519 keypair and persists a new tenant.
func (u *TenantUseCase) Create(ctx context.Context, name string) (*domain.Tenant, error) {
	t, err := domain.New(name)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get resolves a tenant by ID, including its public key.
func (u *TenantUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return u.repo.Get(ctx, id)
}
