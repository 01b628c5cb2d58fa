// Package http exposes the operator-only tenant bootstrap endpoint.
package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	jvalidation "github.com/jellydator/validation"

	apperrors "github.com/dennisMeeQ/clavum/internal/errors"
	"github.com/dennisMeeQ/clavum/internal/httputil"
	"github.com/dennisMeeQ/clavum/internal/tenant/usecase"
	customValidation "github.com/dennisMeeQ/clavum/internal/validation"
)

// Handler exposes tenant provisioning to an operator.
type Handler struct {
	useCase *usecase.TenantUseCase
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(useCase *usecase.TenantUseCase, logger *slog.Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Register mounts the tenant bootstrap route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/v1/tenants", h.Create)
}

// CreateRequest is the body of POST /v1/tenants.
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// Validate checks that Name is present and free of stray whitespace.
func (r *CreateRequest) Validate() error {
	return jvalidation.ValidateStruct(r,
		jvalidation.Field(&r.Name,
			jvalidation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
	)
}

// CreateResponse is the response body of POST /v1/tenants. ServerPub is the
// only key material ever returned for a tenant.
type CreateResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ServerPub string `json:"server_pub"`
}

// Create handles POST /v1/tenants.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed body"), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	t, err := h.useCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		ServerPub: base64.RawURLEncoding.EncodeToString(t.ServerPub),
	})
}
