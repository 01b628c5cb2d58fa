// Package usecase implements RetrievalCoordinator: the tier-routed entry
// point for secret retrieval. It composes crypto/flows, approval, and audit
// without ever persisting a KEK or DEK itself.
package usecase

import (
	"context"

	"github.com/google/uuid"

	agentDomain "github.com/dennisMeeQ/clavum/internal/agent/domain"
	approvalDomain "github.com/dennisMeeQ/clavum/internal/approval/domain"
	approvalUsecase "github.com/dennisMeeQ/clavum/internal/approval/usecase"
	auditDomain "github.com/dennisMeeQ/clavum/internal/audit/domain"
	phoneDomain "github.com/dennisMeeQ/clavum/internal/phone/domain"
	secretDomain "github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// SecretLookup resolves secret metadata, scoped to a tenant.
type SecretLookup interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (*secretDomain.Secret, error)
}

// AgentLookup resolves an agent's public key material, scoped to a tenant.
type AgentLookup interface {
	Get(ctx context.Context, tenantID, agentID uuid.UUID) (*agentDomain.Agent, error)
}

// PhoneLookup resolves the single phone paired to a tenant.
type PhoneLookup interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*phoneDomain.Phone, error)
}

// TenantKeyLoader resolves a tenant's server X25519 private key. Satisfied
// by internal/keycache.Cache.
type TenantKeyLoader interface {
	Get(ctx context.Context, tenantID uuid.UUID) ([]byte, error)
}

// ApprovalCreator is the slice of ApprovalMachine the coordinator drives
// directly; approve/reject are reached only via the phone-facing endpoints.
type ApprovalCreator interface {
	Create(ctx context.Context, in approvalUsecase.CreateInput) (*approvalDomain.Approval, error)
	GetStatus(ctx context.Context, approvalID uuid.UUID) (*approvalDomain.Approval, error)
}

// AuditRecorder appends a signed audit entry for one retrieval attempt.
type AuditRecorder interface {
	Record(ctx context.Context, tenantID uuid.UUID, e *auditDomain.Entry) error
}
