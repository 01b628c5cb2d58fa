// Package repository implements PostgreSQL persistence for secret metadata.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	secretDomain "github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL.
//
// Schema requirements:
//   - id: UUID PRIMARY KEY
//   - tenant_id: UUID NOT NULL REFERENCES tenants(id)
//   - agent_id: UUID NOT NULL REFERENCES agents(id)
//   - name: TEXT NOT NULL
//   - tier: TEXT NOT NULL
//   - created_at: TIMESTAMPTZ NOT NULL
//   - UNIQUE (agent_id, name)
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new secret metadata repository.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// Create inserts new secret metadata. Returns ErrSecretNameTaken on a
// duplicate (agent_id, name) pair.
func (r *PostgreSQLSecretRepository) Create(ctx context.Context, s *secretDomain.Secret) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO secrets (id, tenant_id, agent_id, name, tier, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.TenantID, s.AgentID, s.Name, string(s.Tier), s.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return secretDomain.ErrSecretNameTaken
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves secret metadata by ID, scoped to tenantID.
func (r *PostgreSQLSecretRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*secretDomain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	var s secretDomain.Secret
	var tier string
	err := querier.QueryRowContext(ctx,
		`SELECT id, tenant_id, agent_id, name, tier, created_at
		 FROM secrets WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&s.ID, &s.TenantID, &s.AgentID, &s.Name, &tier, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}
	s.Tier = secretDomain.Tier(tier)
	return &s, nil
}

// ListByAgent returns every secret owned by agentID within tenantID, ordered
// by creation time.
func (r *PostgreSQLSecretRepository) ListByAgent(ctx context.Context, tenantID, agentID uuid.UUID) ([]*secretDomain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT id, tenant_id, agent_id, name, tier, created_at
		 FROM secrets WHERE tenant_id = $1 AND agent_id = $2 ORDER BY created_at ASC`,
		tenantID, agentID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []*secretDomain.Secret
	for rows.Next() {
		var s secretDomain.Secret
		var tier string
		if err := rows.Scan(&s.ID, &s.TenantID, &s.AgentID, &s.Name, &tier, &s.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		s.Tier = secretDomain.Tier(tier)
		secrets = append(secrets, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return secrets, nil
}

// Delete removes secret metadata by ID, scoped to tenantID. Returns
// ErrSecretNotFound if no row matched.
func (r *PostgreSQLSecretRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx,
		`DELETE FROM secrets WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return secretDomain.ErrSecretNotFound
	}
	return nil
}
