// Package http exposes the agent-facing secret metadata endpoints:
// register, list, delete.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authgateHTTP "github.com/dennisMeeQ/clavum/internal/authgate/http"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	"github.com/dennisMeeQ/clavum/internal/httputil"
	"github.com/dennisMeeQ/clavum/internal/secret/domain"
	"github.com/dennisMeeQ/clavum/internal/secret/usecase"
)

var errUnauthenticated = apperrors.Wrap(apperrors.ErrUnauthorized, "unauthenticated")

// Handler exposes the secret metadata surface to authenticated agents.
type Handler struct {
	useCase *usecase.SecretUseCase
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(useCase *usecase.SecretUseCase, logger *slog.Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Register mounts the secret metadata routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/secrets/register", h.RegisterSecret)
	r.GET("/api/secrets", h.List)
	r.DELETE("/api/secrets/:id", h.Delete)
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

// RegisterSecret handles POST /api/secrets/register.
func (h *Handler) RegisterSecret(c *gin.Context) {
	tenantID, agentID, err := agentIdentity(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed body"), h.logger)
		return
	}

	secretID, err := parseSecretID(req.SecretID)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed secret_id"), h.logger)
		return
	}

	tier := domain.Tier(req.Tier)
	if !tier.Valid() {
		httputil.HandleErrorGin(c, domain.ErrInvalidTier, h.logger)
		return
	}

	s, err := h.useCase.Register(c.Request.Context(), usecase.RegisterInput{
		ID:       secretID,
		TenantID: tenantID,
		AgentID:  agentID,
		Name:     req.Name,
		Tier:     tier,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, toResponse(s))
}

// List handles GET /api/secrets.
func (h *Handler) List(c *gin.Context) {
	tenantID, agentID, err := agentIdentity(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secrets, err := h.useCase.ListOwned(c.Request.Context(), tenantID, agentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resp := make([]SecretResponse, 0, len(secrets))
	for _, s := range secrets {
		resp = append(resp, toResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"secrets": resp})
}

// Delete handles DELETE /api/secrets/:id.
func (h *Handler) Delete(c *gin.Context) {
	tenantID, agentID, err := agentIdentity(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secretID, err := parseSecretID(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrSecretNotFound, h.logger)
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), tenantID, agentID, secretID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
