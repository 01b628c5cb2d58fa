// Package http exposes the agent-facing retrieval endpoints: initiate and
// poll.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authgateHTTP "github.com/dennisMeeQ/clavum/internal/authgate/http"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	"github.com/dennisMeeQ/clavum/internal/httputil"
	"github.com/dennisMeeQ/clavum/internal/retrieval/usecase"
)

var errUnauthenticated = apperrors.Wrap(apperrors.ErrUnauthorized, "unauthenticated")

// Handler exposes the retrieval surface to authenticated agents.
type Handler struct {
	coordinator *usecase.Coordinator
	logger      *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(coordinator *usecase.Coordinator, logger *slog.Logger) *Handler {
	return &Handler{coordinator: coordinator, logger: logger}
}

// Register mounts the retrieval routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/secrets/:id/retrieve", h.Retrieve)
	r.GET("/api/secrets/:id/retrieve/status", h.Status)
}

func agentIdentity(c *gin.Context) (tenantID, agentID uuid.UUID, err error) {
	identity, ok := authgateHTTP.GetIdentity(c.Request.Context())
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, errUnauthenticated
	}
	tenantID, err = uuid.Parse(identity.TenantID)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, errUnauthenticated
	}
	agentID, err = uuid.Parse(identity.ID)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, errUnauthenticated
	}
	return tenantID, agentID, nil
}

// Retrieve handles POST /api/secrets/:id/retrieve.
func (h *Handler) Retrieve(c *gin.Context) {
	tenantID, agentID, err := agentIdentity(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed secret id"), h.logger)
		return
	}

	var req RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed body"), h.logger)
		return
	}

	ephPub, err := decodeB64URL(req.EphX25519Pub)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed eph_x25519_pub"), h.logger)
		return
	}
	kekSalt, err := decodeB64URL(req.KEKSalt)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed kek_salt"), h.logger)
		return
	}

	result, err := h.coordinator.Retrieve(c.Request.Context(), usecase.RetrieveInput{
		TenantID:     tenantID,
		AgentID:      agentID,
		SecretID:     secretID,
		EphX25519Pub: ephPub,
		KEKSalt:      kekSalt,
		Reason:       req.Reason,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	switch result.Outcome {
	case usecase.OutcomeGranted:
		c.JSON(http.StatusOK, toGrantedResponse(result))
	default:
		c.JSON(http.StatusAccepted, toPendingResponse(result))
	}
}

// Status handles GET /api/secrets/:id/retrieve/status?approval_id=…
func (h *Handler) Status(c *gin.Context) {
	tenantID, agentID, err := agentIdentity(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed secret id"), h.logger)
		return
	}

	approvalID, err := uuid.Parse(c.Query("approval_id"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed approval_id"), h.logger)
		return
	}

	result, err := h.coordinator.PollStatus(c.Request.Context(), usecase.PollInput{
		TenantID:   tenantID,
		AgentID:    agentID,
		SecretID:   secretID,
		ApprovalID: approvalID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, toStatusResponse(result))
}
