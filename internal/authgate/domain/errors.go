package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// AuthGate errors. The pipeline never surfaces more detail than these two
// kinds to a caller, regardless of which of its internal checks failed.
var (
	// ErrUnauthenticated covers every identity or signature failure: missing
	// headers, unknown identity, stale timestamp, or a bad Ed25519 check.
	ErrUnauthenticated = apperrors.Wrap(apperrors.ErrUnauthorized, "unauthenticated")

	// ErrReplayed indicates this exact signature has already been observed.
	ErrReplayed = apperrors.Wrap(apperrors.ErrConflict, "replayed request")
)
