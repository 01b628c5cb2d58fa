// Package usecase implements agent registration: binding a machine's
// already-generated public keys to a tenant. The handshake that produced
// those keys happens entirely off this server.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/agent/domain"
)

// Repository is the persistence contract this usecase depends on.
type Repository interface {
	Create(ctx context.Context, a *domain.Agent) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Agent, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Agent, error)
}

// AgentUseCase registers and lists agents on behalf of an operator.
type AgentUseCase struct {
	repo Repository
}

// New constructs an AgentUseCase.
func New(repo Repository) *AgentUseCase {
	return &AgentUseCase{repo: repo}
}

// RegisterInput carries the inputs to Register.
type RegisterInput struct {
	TenantID   uuid.UUID
	Name       string
	X25519Pub  []byte
	Ed25519Pub []byte
}

// Register records a new agent's public keys under tenantID.
func (u *AgentUseCase) Register(ctx context.Context, in RegisterInput) (*domain.Agent, error) {
	a, err := domain.New(in.TenantID, in.Name, in.X25519Pub, in.Ed25519Pub)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns every agent registered under tenantID.
func (u *AgentUseCase) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Agent, error) {
	return u.repo.List(ctx, tenantID)
}
