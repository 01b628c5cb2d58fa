package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// Phone errors.
var (
	// ErrPhoneNotFound indicates no phone is paired for the given tenant.
	ErrPhoneNotFound = apperrors.Wrap(apperrors.ErrNotFound, "phone not found")

	// ErrPhoneAlreadyPaired indicates the tenant already has a paired phone;
	// only one phone per tenant is supported.
	ErrPhoneAlreadyPaired = apperrors.Wrap(apperrors.ErrConflict, "tenant already has a paired phone")

	// ErrInvalidX25519Key indicates a malformed X25519 public key.
	ErrInvalidX25519Key = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid X25519 public key")

	// ErrInvalidEd25519Key indicates a malformed Ed25519 public key.
	ErrInvalidEd25519Key = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid Ed25519 public key")
)
