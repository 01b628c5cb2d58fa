package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// ErrWriteFailed indicates the audit write itself failed. It deliberately
// does not wrap any of the closed taxonomy's client-facing kinds: per the
// atomicity-of-audit-writes rule this must surface as an internal error
// before any key material reaches the caller, never as BadRequest or Conflict.
var ErrWriteFailed = apperrors.New("audit write failed")
