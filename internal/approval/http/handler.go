package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	approvalUsecase "github.com/dennisMeeQ/clavum/internal/approval/usecase"
	authgateHTTP "github.com/dennisMeeQ/clavum/internal/authgate/http"
	"github.com/dennisMeeQ/clavum/internal/httputil"
)

// Handler exposes the phone-facing approval endpoints over gin.
type Handler struct {
	machine *approvalUsecase.ApprovalMachine
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(machine *approvalUsecase.ApprovalMachine, logger *slog.Logger) *Handler {
	return &Handler{machine: machine, logger: logger}
}

// Register mounts the approval routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/approvals/pending", h.ListPending)
	r.POST("/api/approvals/:id/approve", h.Approve)
	r.POST("/api/approvals/:id/reject", h.Reject)
}

// ListPending handles GET /api/approvals/pending.
func (h *Handler) ListPending(c *gin.Context) {
	identity, ok := authgateHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, errUnauthenticated, h.logger)
		return
	}

	tenantID, err := uuid.Parse(identity.TenantID)
	if err != nil {
		httputil.HandleErrorGin(c, errUnauthenticated, h.logger)
		return
	}

	approvals, err := h.machine.ListPendingForTenant(c.Request.Context(), tenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	resp := PendingListResponse{Approvals: make([]ApprovalResponse, 0, len(approvals))}
	for _, a := range approvals {
		resp.Approvals = append(resp.Approvals, toResponse(a))
	}
	c.JSON(200, resp)
}

// Approve handles POST /api/approvals/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	id, err := approvalIDFromParam(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, errBadRequest, h.logger)
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleErrorGin(c, errBadRequest, h.logger)
		return
	}

	sig, err := DecodeSignature(req)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	approval, err := h.machine.Approve(c.Request.Context(), id, sig)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(200, toResponse(approval))
}

// Reject handles POST /api/approvals/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	id, err := approvalIDFromParam(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, errBadRequest, h.logger)
		return
	}

	approval, err := h.machine.Reject(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(200, toResponse(approval))
}
