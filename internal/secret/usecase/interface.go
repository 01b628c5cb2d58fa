// Package usecase implements secret metadata registration, listing, and
// removal. The core never sees ciphertext; this layer only ever touches
// (id, tenant, owning_agent, name, tier).
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// Repository is the persistence contract this usecase depends on.
type Repository interface {
	Create(ctx context.Context, s *domain.Secret) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Secret, error)
	ListByAgent(ctx context.Context, tenantID, agentID uuid.UUID) ([]*domain.Secret, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
