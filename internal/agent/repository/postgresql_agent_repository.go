// Package repository implements PostgreSQL persistence for agents.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	agentDomain "github.com/dennisMeeQ/clavum/internal/agent/domain"
	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// PostgreSQLAgentRepository implements Agent persistence for PostgreSQL.
//
// Schema requirements:
//   - id: UUID PRIMARY KEY
//   - tenant_id: UUID NOT NULL REFERENCES tenants(id)
//   - name: TEXT NOT NULL
//   - x25519_pub: BYTEA NOT NULL
//   - ed25519_pub: BYTEA NOT NULL
//   - created_at: TIMESTAMPTZ NOT NULL
//   - UNIQUE (tenant_id, name)
type PostgreSQLAgentRepository struct {
	db *sql.DB
}

// NewPostgreSQLAgentRepository creates a new agent repository.
func NewPostgreSQLAgentRepository(db *sql.DB) *PostgreSQLAgentRepository {
	return &PostgreSQLAgentRepository{db: db}
}

// Create inserts a new agent. Returns ErrAgentNameTaken on a duplicate
// (tenant_id, name) pair.
func (r *PostgreSQLAgentRepository) Create(ctx context.Context, a *agentDomain.Agent) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO agents (id, tenant_id, name, x25519_pub, ed25519_pub, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.TenantID, a.Name, a.X25519Pub, a.Ed25519Pub, a.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return agentDomain.ErrAgentNameTaken
		}
		return apperrors.Wrap(err, "failed to create agent")
	}
	return nil
}

// Get retrieves an agent by ID, scoped to tenantID.
func (r *PostgreSQLAgentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*agentDomain.Agent, error) {
	querier := database.GetTx(ctx, r.db)

	var a agentDomain.Agent
	err := querier.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, x25519_pub, ed25519_pub, created_at
		 FROM agents WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&a.ID, &a.TenantID, &a.Name, &a.X25519Pub, &a.Ed25519Pub, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, agentDomain.ErrAgentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get agent")
	}
	return &a, nil
}

// GetByID retrieves an agent by ID alone, without a known tenant scope. Used
// by AuthGate, which must resolve an identity's tenant from the claimed
// agent ID before it can verify anything tenant-scoped.
func (r *PostgreSQLAgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*agentDomain.Agent, error) {
	querier := database.GetTx(ctx, r.db)

	var a agentDomain.Agent
	err := querier.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, x25519_pub, ed25519_pub, created_at
		 FROM agents WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.TenantID, &a.Name, &a.X25519Pub, &a.Ed25519Pub, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, agentDomain.ErrAgentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get agent by id")
	}
	return &a, nil
}

// List returns every agent registered under tenantID, ordered by creation time.
func (r *PostgreSQLAgentRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*agentDomain.Agent, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT id, tenant_id, name, x25519_pub, ed25519_pub, created_at
		 FROM agents WHERE tenant_id = $1 ORDER BY created_at ASC`,
		tenantID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list agents")
	}
	defer rows.Close()

	var agents []*agentDomain.Agent
	for rows.Next() {
		var a agentDomain.Agent
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Name, &a.X25519Pub, &a.Ed25519Pub, &a.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan agent")
		}
		agents = append(agents, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate agents")
	}
	return agents, nil
}
