package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// Tenant errors.
var (
	// ErrTenantNotFound indicates no tenant exists with the given ID.
	ErrTenantNotFound = apperrors.Wrap(apperrors.ErrNotFound, "tenant not found")

	// ErrTenantNameTaken indicates a tenant with this name already exists.
	ErrTenantNameTaken = apperrors.Wrap(apperrors.ErrConflict, "tenant name already taken")
)
