package domain

import (
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

// Agent errors.
var (
	// ErrAgentNotFound indicates no agent exists with the given ID in the tenant.
	ErrAgentNotFound = apperrors.Wrap(apperrors.ErrNotFound, "agent not found")

	// ErrAgentNameTaken indicates an agent with this name already exists in the tenant.
	ErrAgentNameTaken = apperrors.Wrap(apperrors.ErrConflict, "agent name already taken in tenant")

	// ErrInvalidX25519Key indicates a malformed X25519 public key.
	ErrInvalidX25519Key = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid X25519 public key")

	// ErrInvalidEd25519Key indicates a malformed Ed25519 public key.
	ErrInvalidEd25519Key = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid Ed25519 public key")
)
