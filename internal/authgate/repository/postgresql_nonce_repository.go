// Package repository implements PostgreSQL persistence for the nonce store.
package repository

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"github.com/dennisMeeQ/clavum/internal/database"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// gcEveryN triggers a lazy reclaim of expired nonce rows on every Nth
// insert. The reclaim runs after the insert completes and never blocks it.
const gcEveryN = 50

// PostgreSQLNonceRepository implements the replay-protection nonce store for
// PostgreSQL.
//
// Schema requirements:
//   - signature_digest: BYTEA PRIMARY KEY
//   - expires_at: TIMESTAMPTZ NOT NULL
//
// The nonce store is the only write-hot shared structure in the system;
// uniqueness is enforced by the PRIMARY KEY constraint, not a process-local
// mutex, so it holds under concurrent handlers across any number of server
// processes.
type PostgreSQLNonceRepository struct {
	db      *sql.DB
	counter atomic.Uint64
}

// NewPostgreSQLNonceRepository creates a new nonce repository.
func NewPostgreSQLNonceRepository(db *sql.DB) *PostgreSQLNonceRepository {
	return &PostgreSQLNonceRepository{db: db}
}

// TryInsert attempts to record digest as observed until expiresAt. It
// returns false, without error, if digest was already present — the caller
// treats this as a replay. A concurrent insert race that loses to a unique
// violation is folded into the same false result, per the at-most-one
// guarantee.
func (r *PostgreSQLNonceRepository) TryInsert(ctx context.Context, digest []byte, expiresAt time.Time) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`INSERT INTO nonces (signature_digest, expires_at) VALUES ($1, $2)`,
		digest, expiresAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to insert nonce")
	}

	if r.counter.Add(1)%gcEveryN == 0 {
		go r.reclaimExpired(context.WithoutCancel(ctx))
	}

	return true, nil
}

// reclaimExpired deletes nonce rows past their TTL. It runs detached from
// the inserting request's context and swallows its own errors; a missed
// reclaim only delays cleanup, it never threatens correctness.
func (r *PostgreSQLNonceRepository) reclaimExpired(ctx context.Context) {
	_, _ = r.db.ExecContext(ctx, `DELETE FROM nonces WHERE expires_at < now()`)
}
