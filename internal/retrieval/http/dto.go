package http

import (
	"encoding/base64"
	"time"

	"github.com/dennisMeeQ/clavum/internal/retrieval/usecase"
)

// RetrieveRequest is the body of POST /api/secrets/:id/retrieve.
type RetrieveRequest struct {
	EphX25519Pub string `json:"eph_x25519_pub" binding:"required"`
	KEKSalt      string `json:"kek_salt" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

func decodeB64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

func encodeB64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// GrantedResponse is the 200 body when a retrieval resolves immediately.
type GrantedResponse struct {
	EncKEK    string `json:"enc_kek"`
	EncKEKIV  string `json:"enc_kek_iv"`
	EncKEKTag string `json:"enc_kek_tag"`
}

func toGrantedResponse(r *usecase.RetrieveResult) GrantedResponse {
	return GrantedResponse{
		EncKEK:    encodeB64URL(r.EncKEK),
		EncKEKIV:  encodeB64URL(r.EncKEKIV),
		EncKEKTag: encodeB64URL(r.EncKEKTag),
	}
}

// PendingResponse is the 202 body when a retrieval needs human approval.
type PendingResponse struct {
	Status     string `json:"status"`
	ApprovalID string `json:"approval_id"`
	ExpiresAt  string `json:"expires_at"`
}

func toPendingResponse(r *usecase.RetrieveResult) PendingResponse {
	return PendingResponse{
		Status:     "pending",
		ApprovalID: r.ApprovalID.String(),
		ExpiresAt:  r.ExpiresAt.Format(time.RFC3339),
	}
}

// StatusResponse is the body of GET /api/secrets/:id/retrieve/status.
type StatusResponse struct {
	Status      string  `json:"status"`
	RespondedAt *string `json:"responded_at,omitempty"`
	EncKEK      string  `json:"enc_kek,omitempty"`
	EncKEKIV    string  `json:"enc_kek_iv,omitempty"`
	EncKEKTag   string  `json:"enc_kek_tag,omitempty"`
}

func toStatusResponse(r *usecase.PollResult) StatusResponse {
	resp := StatusResponse{Status: r.Status}
	if r.RespondedAt != nil {
		formatted := r.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &formatted
	}
	if len(r.EncKEK) > 0 {
		resp.EncKEK = encodeB64URL(r.EncKEK)
		resp.EncKEKIV = encodeB64URL(r.EncKEKIV)
		resp.EncKEKTag = encodeB64URL(r.EncKEKTag)
	}
	return resp
}
