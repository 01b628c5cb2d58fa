// Package http exposes the operator-only agent registration endpoint.
package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jvalidation "github.com/jellydator/validation"

	agentDomain "github.com/dennisMeeQ/clavum/internal/agent/domain"
	"github.com/dennisMeeQ/clavum/internal/agent/usecase"
	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	"github.com/dennisMeeQ/clavum/internal/httputil"
	customValidation "github.com/dennisMeeQ/clavum/internal/validation"
)

// Handler exposes agent registration to an operator.
type Handler struct {
	useCase *usecase.AgentUseCase
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(useCase *usecase.AgentUseCase, logger *slog.Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Register mounts the agent bootstrap routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/v1/tenants/:id/agents", h.Create)
}

// CreateRequest is the body of POST /v1/tenants/:id/agents. Both keys are
// generated on the agent's own device and submitted here post-handshake.
type CreateRequest struct {
	Name       string `json:"name" binding:"required"`
	X25519Pub  string `json:"x25519_pub" binding:"required"`
	Ed25519Pub string `json:"ed25519_pub" binding:"required"`
}

// Validate checks Name and that both public keys are well-formed base64url.
func (r *CreateRequest) Validate() error {
	return jvalidation.ValidateStruct(r,
		jvalidation.Field(&r.Name, jvalidation.Required, customValidation.NotBlank, customValidation.NoWhitespace),
		jvalidation.Field(&r.X25519Pub, jvalidation.Required, customValidation.Base64URL),
		jvalidation.Field(&r.Ed25519Pub, jvalidation.Required, customValidation.Base64URL),
	)
}

// CreateResponse is the response body of POST /v1/tenants/:id/agents.
type CreateResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	Name       string `json:"name"`
	X25519Pub  string `json:"x25519_pub"`
	Ed25519Pub string `json:"ed25519_pub"`
}

// Create handles POST /v1/tenants/:id/agents.
func (h *Handler) Create(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed tenant id"), h.logger)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed body"), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	x25519Pub, err := base64.RawURLEncoding.DecodeString(req.X25519Pub)
	if err != nil {
		httputil.HandleErrorGin(c, agentDomain.ErrInvalidX25519Key, h.logger)
		return
	}
	ed25519Pub, err := base64.RawURLEncoding.DecodeString(req.Ed25519Pub)
	if err != nil {
		httputil.HandleErrorGin(c, agentDomain.ErrInvalidEd25519Key, h.logger)
		return
	}

	a, err := h.useCase.Register(c.Request.Context(), usecase.RegisterInput{
		TenantID:   tenantID,
		Name:       req.Name,
		X25519Pub:  x25519Pub,
		Ed25519Pub: ed25519Pub,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{
		ID:         a.ID.String(),
		TenantID:   a.TenantID.String(),
		Name:       a.Name,
		X25519Pub:  base64.RawURLEncoding.EncodeToString(a.X25519Pub),
		Ed25519Pub: base64.RawURLEncoding.EncodeToString(a.Ed25519Pub),
	})
}
