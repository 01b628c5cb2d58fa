// Package repository implements PostgreSQL persistence for approvals, with
// status transitions enforced atomically at the database layer so that at
// most one of {approve, reject, expire} ever wins a race on one record.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	approvalDomain "github.com/dennisMeeQ/clavum/internal/approval/domain"
	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// PostgreSQLApprovalRepository implements Approval persistence for
// PostgreSQL.
//
// Schema requirements:
//   - id: UUID PRIMARY KEY
//   - phone_id: UUID NOT NULL REFERENCES phones(id)
//   - secret_id: UUID NOT NULL REFERENCES secrets(id)
//   - reason: TEXT NOT NULL
//   - challenge: BYTEA NOT NULL
//   - status: TEXT NOT NULL
//   - created_at: TIMESTAMPTZ NOT NULL
//   - expires_at: TIMESTAMPTZ NOT NULL
//   - responded_at: TIMESTAMPTZ NULL
//   - approval_signature: BYTEA NULL
//   - eph_x25519_pub: BYTEA NULL
//   - kek_salt: BYTEA NULL
type PostgreSQLApprovalRepository struct {
	db *sql.DB
}

// NewPostgreSQLApprovalRepository creates a new approval repository.
func NewPostgreSQLApprovalRepository(db *sql.DB) *PostgreSQLApprovalRepository {
	return &PostgreSQLApprovalRepository{db: db}
}

// Create inserts a new pending approval.
func (r *PostgreSQLApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO approvals (id, phone_id, secret_id, reason, challenge, status, created_at, expires_at, eph_x25519_pub, kek_salt)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.PhoneID, a.SecretID, a.Reason, a.Challenge, string(a.Status), a.CreatedAt, a.ExpiresAt, a.EphX25519Pub, a.KEKSalt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create approval")
	}
	return nil
}

// Get retrieves an approval by ID.
func (r *PostgreSQLApprovalRepository) Get(ctx context.Context, id uuid.UUID) (*approvalDomain.Approval, error) {
	querier := database.GetTx(ctx, r.db)

	var a approvalDomain.Approval
	var status string
	err := querier.QueryRowContext(ctx,
		`SELECT id, phone_id, secret_id, reason, challenge, status, created_at, expires_at, responded_at, approval_signature, eph_x25519_pub, kek_salt
		 FROM approvals WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.PhoneID, &a.SecretID, &a.Reason, &a.Challenge, &status, &a.CreatedAt, &a.ExpiresAt, &a.RespondedAt, &a.ApprovalSignature, &a.EphX25519Pub, &a.KEKSalt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, approvalDomain.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get approval")
	}
	a.Status = approvalDomain.Status(status)
	return &a, nil
}

// TryTransition atomically moves id from pending to toStatus, provided it is
// still pending. It returns ok=false (no error) if the record had already
// left pending — the caller treats this as a lost race.
func (r *PostgreSQLApprovalRepository) TryTransition(ctx context.Context, id uuid.UUID, toStatus approvalDomain.Status, respondedAt time.Time, approvalSignature []byte) (ok bool, err error) {
	querier := database.GetTx(ctx, r.db)

	res, err := querier.ExecContext(ctx,
		`UPDATE approvals SET status = $1, responded_at = $2, approval_signature = $3
		 WHERE id = $4 AND status = $5`,
		string(toStatus), respondedAt, approvalSignature, id, string(approvalDomain.StatusPending),
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to transition approval")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read rows affected")
	}
	return n == 1, nil
}

// LazyExpireOne expires id if it is pending and past its deadline. It is a
// no-op, without error, if the record is not pending or not yet past
// deadline.
func (r *PostgreSQLApprovalRepository) LazyExpireOne(ctx context.Context, id uuid.UUID, now time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE approvals SET status = $1, responded_at = $2
		 WHERE id = $3 AND status = $4 AND expires_at <= $2`,
		string(approvalDomain.StatusExpired), now, id, string(approvalDomain.StatusPending),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to lazy-expire approval")
	}
	return nil
}

// LazyExpireTenant bulk-expires every pending, past-deadline approval whose
// phone belongs to tenantID. Callers run this before ListPendingForTenant so
// the returned set never contains an expired row.
func (r *PostgreSQLApprovalRepository) LazyExpireTenant(ctx context.Context, tenantID uuid.UUID, now time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE approvals SET status = $1, responded_at = $2
		 WHERE status = $3 AND expires_at <= $2
		   AND phone_id IN (SELECT id FROM phones WHERE tenant_id = $4)`,
		string(approvalDomain.StatusExpired), now, string(approvalDomain.StatusPending), tenantID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to bulk lazy-expire approvals")
	}
	return nil
}

// ListPendingForTenant returns every pending approval whose phone belongs to
// tenantID, ordered by creation time ascending.
func (r *PostgreSQLApprovalRepository) ListPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]*approvalDomain.Approval, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT a.id, a.phone_id, a.secret_id, a.reason, a.challenge, a.status, a.created_at, a.expires_at, a.responded_at, a.approval_signature, a.eph_x25519_pub, a.kek_salt
		 FROM approvals a
		 JOIN phones p ON p.id = a.phone_id
		 WHERE p.tenant_id = $1 AND a.status = $2
		 ORDER BY a.created_at ASC`,
		tenantID, string(approvalDomain.StatusPending),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pending approvals")
	}
	defer rows.Close()

	var approvals []*approvalDomain.Approval
	for rows.Next() {
		var a approvalDomain.Approval
		var status string
		if err := rows.Scan(&a.ID, &a.PhoneID, &a.SecretID, &a.Reason, &a.Challenge, &status, &a.CreatedAt, &a.ExpiresAt, &a.RespondedAt, &a.ApprovalSignature, &a.EphX25519Pub, &a.KEKSalt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan approval")
		}
		a.Status = approvalDomain.Status(status)
		approvals = append(approvals, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate pending approvals")
	}
	return approvals, nil
}
