// Package repository implements PostgreSQL persistence for phones.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	phoneDomain "github.com/dennisMeeQ/clavum/internal/phone/domain"
)

// PostgreSQLPhoneRepository implements Phone persistence for PostgreSQL.
//
// Schema requirements:
//   - id: UUID PRIMARY KEY
//   - tenant_id: UUID NOT NULL UNIQUE REFERENCES tenants(id)
//   - name: TEXT NOT NULL
//   - x25519_pub: BYTEA NOT NULL
//   - ed25519_pub: BYTEA NOT NULL
//   - created_at: TIMESTAMPTZ NOT NULL
//
// tenant_id is UNIQUE rather than merely indexed: one phone per tenant is
// the resolved shape, not a temporary restriction.
type PostgreSQLPhoneRepository struct {
	db *sql.DB
}

// NewPostgreSQLPhoneRepository creates a new phone repository.
func NewPostgreSQLPhoneRepository(db *sql.DB) *PostgreSQLPhoneRepository {
	return &PostgreSQLPhoneRepository{db: db}
}

// Create pairs a new phone to a tenant. Returns ErrPhoneAlreadyPaired if the
// tenant already has one.
func (r *PostgreSQLPhoneRepository) Create(ctx context.Context, p *phoneDomain.Phone) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO phones (id, tenant_id, name, x25519_pub, ed25519_pub, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.TenantID, p.Name, p.X25519Pub, p.Ed25519Pub, p.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return phoneDomain.ErrPhoneAlreadyPaired
		}
		return apperrors.Wrap(err, "failed to create phone")
	}
	return nil
}

// GetByTenant retrieves the phone paired to tenantID.
func (r *PostgreSQLPhoneRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*phoneDomain.Phone, error) {
	querier := database.GetTx(ctx, r.db)

	var p phoneDomain.Phone
	err := querier.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, x25519_pub, ed25519_pub, created_at
		 FROM phones WHERE tenant_id = $1`,
		tenantID,
	).Scan(&p.ID, &p.TenantID, &p.Name, &p.X25519Pub, &p.Ed25519Pub, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, phoneDomain.ErrPhoneNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get phone")
	}
	return &p, nil
}

// GetByID retrieves a phone by ID alone, without a known tenant scope. Used
// by AuthGate, which must resolve an identity's tenant from the claimed
// phone ID before it can verify anything tenant-scoped.
func (r *PostgreSQLPhoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*phoneDomain.Phone, error) {
	querier := database.GetTx(ctx, r.db)

	var p phoneDomain.Phone
	err := querier.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, x25519_pub, ed25519_pub, created_at
		 FROM phones WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.TenantID, &p.Name, &p.X25519Pub, &p.Ed25519Pub, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, phoneDomain.ErrPhoneNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get phone by id")
	}
	return &p, nil
}
