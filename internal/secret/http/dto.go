package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/secret/domain"
)

// RegisterRequest is the body of POST /api/secrets/register.
type RegisterRequest struct {
	SecretID string `json:"secret_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Tier     string `json:"tier" binding:"required"`
}

// SecretResponse is the wire representation of one secret record.
type SecretResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	CreatedAt string `json:"created_at"`
}

func toResponse(s *domain.Secret) SecretResponse {
	return SecretResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Tier:      string(s.Tier),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func parseSecretID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
