// Package http exposes the phone-facing approval endpoints.
package http

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/approval/domain"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
)

var (
	errBadRequest      = apperrors.Wrap(apperrors.ErrInvalidInput, "malformed request")
	errUnauthenticated = apperrors.Wrap(apperrors.ErrUnauthorized, "unauthenticated")
)

// DecodeSignature base64url-decodes an approval signature from a request body.
func DecodeSignature(req ApproveRequest) ([]byte, error) {
	sig, err := base64.RawURLEncoding.DecodeString(req.Signature)
	if err != nil {
		return nil, errBadRequest
	}
	return sig, nil
}

// ApprovalResponse is the wire representation of one approval record.
type ApprovalResponse struct {
	ID          string     `json:"id"`
	SecretID    string     `json:"secret_id"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	Challenge   string     `json:"challenge"`
}

func toResponse(a *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		ID:          a.ID.String(),
		SecretID:    a.SecretID.String(),
		Reason:      a.Reason,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		ExpiresAt:   a.ExpiresAt,
		RespondedAt: a.RespondedAt,
		Challenge:   base64.RawURLEncoding.EncodeToString(a.Challenge),
	}
}

// PendingListResponse is the body of GET /api/approvals/pending.
type PendingListResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
}

// ApproveRequest is the body of POST /api/approvals/:id/approve.
type ApproveRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// approvalIDFromParam parses the :id path parameter.
func approvalIDFromParam(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
