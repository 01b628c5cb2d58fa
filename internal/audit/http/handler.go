// Package http exposes the agent-facing audit query endpoint.
package http

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authgateHTTP "github.com/dennisMeeQ/clavum/internal/authgate/http"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	"github.com/dennisMeeQ/clavum/internal/httputil"

	"github.com/dennisMeeQ/clavum/internal/audit/domain"
	"github.com/dennisMeeQ/clavum/internal/audit/repository"
	"github.com/dennisMeeQ/clavum/internal/audit/usecase"
)

var errUnauthenticated = apperrors.Wrap(apperrors.ErrUnauthorized, "unauthenticated")

// EntryResponse is the wire representation of one audit entry.
type EntryResponse struct {
	ID        string `json:"id"`
	SecretID  string `json:"secret_id"`
	Reason    string `json:"reason"`
	Tier      string `json:"tier"`
	Result    string `json:"result"`
	CreatedAt string `json:"created_at"`
	LatencyMs *int64 `json:"latency_ms,omitempty"`
	Proof     string `json:"proof,omitempty"`
}

// Handler exposes GET /api/audit.
type Handler struct {
	useCase *usecase.AuditUseCase
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(useCase *usecase.AuditUseCase, logger *slog.Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Register mounts the audit route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/audit", h.List)
}

// List handles GET /api/audit?secret_id=&from=&to=&limit=
func (h *Handler) List(c *gin.Context) {
	identity, ok := authgateHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, errUnauthenticated, h.logger)
		return
	}

	agentID, err := uuid.Parse(identity.ID)
	if err != nil {
		httputil.HandleErrorGin(c, errUnauthenticated, h.logger)
		return
	}

	f := repository.Filter{AgentID: agentID}

	if raw := c.Query("secret_id"); raw != "" {
		secretID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed secret_id"), h.logger)
			return
		}
		f.SecretID = secretID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed from"), h.logger)
			return
		}
		f.From = from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed to"), h.logger)
			return
		}
		f.To = to
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed limit"), h.logger)
			return
		}
		f.Limit = limit
	}

	entries, err := h.useCase.ListForAgent(c.Request.Context(), f)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toResponse(e))
	}
	c.JSON(200, gin.H{"entries": resp})
}

func toResponse(e *domain.Entry) EntryResponse {
	r := EntryResponse{
		ID:        e.ID.String(),
		SecretID:  e.SecretID.String(),
		Reason:    e.Reason,
		Tier:      string(e.Tier),
		Result:    string(e.Result),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		LatencyMs: e.LatencyMs,
	}
	if len(e.Proof) > 0 {
		r.Proof = proofBase64URL(e.Proof)
	}
	return r
}
