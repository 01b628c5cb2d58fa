package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// Approval errors.
var (
	// ErrNotFound indicates no approval exists with the given ID.
	ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "approval not found")

	// ErrAlreadyResolved indicates the approval is no longer pending.
	ErrAlreadyResolved = apperrors.Wrap(apperrors.ErrConflict, "approval already resolved")

	// ErrExpired indicates the approval passed its deadline before resolution.
	ErrExpired = apperrors.Wrap(apperrors.ErrExpired, "approval expired")

	// ErrInvalidSignature indicates the phone's approval signature failed
	// verification; the record remains pending.
	ErrInvalidSignature = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid approval signature")
)
