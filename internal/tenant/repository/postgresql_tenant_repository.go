// Package repository implements PostgreSQL persistence for tenants.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	tenantDomain "github.com/dennisMeeQ/clavum/internal/tenant/domain"
)

// PostgreSQLTenantRepository implements Tenant persistence for PostgreSQL.
//
// Schema requirements:
//   - id: UUID PRIMARY KEY
//   - name: TEXT UNIQUE NOT NULL
//   - server_pub: BYTEA NOT NULL
//   - server_priv: BYTEA NOT NULL
//   - created_at: TIMESTAMPTZ NOT NULL
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// NewPostgreSQLTenantRepository creates a new tenant repository.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}

// Create inserts a new tenant. Returns ErrTenantNameTaken on a duplicate name.
func (r *PostgreSQLTenantRepository) Create(ctx context.Context, t *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO tenants (id, name, server_pub, server_priv, created_at) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.ServerPub, t.ServerPriv, t.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return tenantDomain.ErrTenantNameTaken
		}
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// Get retrieves a tenant by ID, including its private key material.
func (r *PostgreSQLTenantRepository) Get(ctx context.Context, id uuid.UUID) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, r.db)

	var t tenantDomain.Tenant
	err := querier.QueryRowContext(ctx,
		`SELECT id, name, server_pub, server_priv, created_at FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.ServerPub, &t.ServerPriv, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get tenant")
	}
	return &t, nil
}
