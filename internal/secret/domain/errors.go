package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// Secret errors.
var (
	// ErrSecretNotFound indicates no secret exists with the given ID in the tenant.
	ErrSecretNotFound = apperrors.Wrap(apperrors.ErrNotFound, "secret not found")

	// ErrSecretNameTaken indicates a secret with this name already exists for the owning agent.
	ErrSecretNameTaken = apperrors.Wrap(apperrors.ErrConflict, "secret name already registered for agent")

	// ErrInvalidTier indicates tier is not one of routine, sensitive, critical.
	ErrInvalidTier = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid tier")

	// ErrNotOwner indicates the authenticated agent does not own this secret.
	ErrNotOwner = apperrors.Wrap(apperrors.ErrForbidden, "agent does not own this secret")
)
