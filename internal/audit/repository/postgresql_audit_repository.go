// Package repository implements PostgreSQL persistence for the append-only
// audit log.
package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/dennisMeeQ/clavum/internal/audit/domain"
	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	secretDomain "github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// PostgreSQLAuditRepository implements Entry persistence for PostgreSQL.
//
// Schema requirements:
//   - id: UUID PRIMARY KEY
//   - agent_id: UUID NOT NULL REFERENCES agents(id)
//   - secret_id: UUID NOT NULL REFERENCES secrets(id)
//   - reason: TEXT NOT NULL
//   - tier: TEXT NOT NULL
//   - result: TEXT NOT NULL
//   - created_at: TIMESTAMPTZ NOT NULL
//   - latency_ms: BIGINT NULL
//   - proof: BYTEA NULL
//   - signature: BYTEA NOT NULL
//
// Rows are never updated or deleted by application code; this is an
// append-only table.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository creates a new audit repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

// Append inserts e. It never updates an existing row.
func (r *PostgreSQLAuditRepository) Append(ctx context.Context, e *auditDomain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO audit_entries (id, agent_id, secret_id, reason, tier, result, created_at, latency_ms, proof, signature)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.AgentID, e.SecretID, e.Reason, string(e.Tier), string(e.Result), e.CreatedAt, e.LatencyMs, e.Proof, e.Signature,
	)
	if err != nil {
		return apperrors.Wrap(auditDomain.ErrWriteFailed, err.Error())
	}
	return nil
}

// Filter narrows a query against the audit log; zero values are unbounded.
type Filter struct {
	AgentID  uuid.UUID
	SecretID uuid.UUID
	From     time.Time
	To       time.Time
	Limit    int
}

// List returns entries for the given agent, newest first, applying Filter.
func (r *PostgreSQLAuditRepository) List(ctx context.Context, f Filter) ([]*auditDomain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, agent_id, secret_id, reason, tier, result, created_at, latency_ms, proof, signature
	          FROM audit_entries WHERE agent_id = $1`
	args := []any{f.AgentID}

	if f.SecretID != uuid.Nil {
		args = append(args, f.SecretID)
		query += " AND secret_id = $" + strconv.Itoa(len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		query += " AND created_at >= $" + strconv.Itoa(len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		query += " AND created_at <= $" + strconv.Itoa(len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	args = append(args, limit)
	query += " LIMIT $" + strconv.Itoa(len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	var entries []*auditDomain.Entry
	for rows.Next() {
		var e auditDomain.Entry
		var tier, result string
		if err := rows.Scan(&e.ID, &e.AgentID, &e.SecretID, &e.Reason, &tier, &result, &e.CreatedAt, &e.LatencyMs, &e.Proof, &e.Signature); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		e.Tier = secretDomain.Tier(tier)
		e.Result = auditDomain.Result(result)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return entries, nil
}

