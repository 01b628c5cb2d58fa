// Package usecase implements audit entry creation and querying.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/audit/domain"
	"github.com/dennisMeeQ/clavum/internal/audit/repository"
)

// Repository is the persistence contract this usecase depends on.
type Repository interface {
	Append(ctx context.Context, e *domain.Entry) error
	List(ctx context.Context, f repository.Filter) ([]*domain.Entry, error)
}

// Signer signs and verifies audit entries.
type Signer interface {
	Sign(tenantKey []byte, e *domain.Entry) ([]byte, error)
	Verify(tenantKey []byte, e *domain.Entry) bool
}

// TenantKeyLookup resolves the key material used to derive a tenant's audit
// signing key. The coordinator already holds this key for KEK derivation;
// the audit usecase borrows it rather than maintaining a second secret.
type TenantKeyLookup interface {
	ServerPrivateKey(ctx context.Context, tenantID uuid.UUID) ([]byte, error)
}
