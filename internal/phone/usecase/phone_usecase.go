// Package usecase implements phone pairing: binding the human approver's
// device's already-generated public keys to a tenant. Exactly one phone may
// be paired per tenant; the repository enforces this with a unique
// constraint rather than this layer checking first and racing itself.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/phone/domain"
)

// Repository is the persistence contract this usecase depends on.
type Repository interface {
	Create(ctx context.Context, p *domain.Phone) error
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Phone, error)
}

// PhoneUseCase pairs and resolves a tenant's phone.
type PhoneUseCase struct {
	repo Repository
}

// New constructs a PhoneUseCase.
func New(repo Repository) *PhoneUseCase {
	return &PhoneUseCase{repo: repo}
}

// RegisterInput carries the inputs to Register.
type RegisterInput struct {
	TenantID   uuid.UUID
	Name       string
	X25519Pub  []byte
	Ed25519Pub []byte
}

// Register pairs a new phone's public keys to tenantID.
func (u *PhoneUseCase) Register(ctx context.Context, in RegisterInput) (*domain.Phone, error) {
	p, err := domain.New(in.TenantID, in.Name, in.X25519Pub, in.Ed25519Pub)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get resolves the phone paired to tenantID.
func (u *PhoneUseCase) Get(ctx context.Context, tenantID uuid.UUID) (*domain.Phone, error) {
	return u.repo.GetByTenant(ctx, tenantID)
}
