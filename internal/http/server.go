// Package http provides HTTP server implementation and request handlers using Gin web framework.
// The server uses Clean Architecture principles with structured logging (slog) and graceful shutdown.
//
// This server uses Gin (github.com/gin-gonic/gin) for HTTP routing while maintaining
// compatibility with the application's existing patterns:
//   - Custom slog-based logging middleware (instead of Gin's default logger)
//   - Gin-compatible error handling utilities (httputil.HandleErrorGin)
//   - Manual http.Server configuration for timeout and graceful shutdown control
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	agentHTTP "github.com/dennisMeeQ/clavum/internal/agent/http"
	approvalHTTP "github.com/dennisMeeQ/clavum/internal/approval/http"
	auditHTTP "github.com/dennisMeeQ/clavum/internal/audit/http"
	authgateHTTP "github.com/dennisMeeQ/clavum/internal/authgate/http"
	authgateUsecase "github.com/dennisMeeQ/clavum/internal/authgate/usecase"
	"github.com/dennisMeeQ/clavum/internal/config"
	phoneHTTP "github.com/dennisMeeQ/clavum/internal/phone/http"
	retrievalHTTP "github.com/dennisMeeQ/clavum/internal/retrieval/http"
	secretHTTP "github.com/dennisMeeQ/clavum/internal/secret/http"
	tenantHTTP "github.com/dennisMeeQ/clavum/internal/tenant/http"
)

// Server represents the HTTP server.
type Server struct {
	db       *sql.DB
	server   *http.Server
	logger   *slog.Logger
	router   *gin.Engine
	reqGroup singleflight.Group
}

// NewServer creates a new HTTP server.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handlers bundles every HTTP handler SetupRouter mounts. Grouping them into
// one struct keeps SetupRouter's signature stable as the route table grows.
type Handlers struct {
	Tenant    *tenantHTTP.Handler
	Agent     *agentHTTP.Handler
	Phone     *phoneHTTP.Handler
	Secret    *secretHTTP.Handler
	Retrieval *retrievalHTTP.Handler
	Approval  *approvalHTTP.Handler
	Audit     *auditHTTP.Handler
}

// SetupRouter configures the Gin router with all routes and middleware.
// This method is called during server initialization with all required dependencies.
func (s *Server) SetupRouter(
	cfg *config.Config,
	gate *authgateUsecase.AuthGate,
	h Handlers,
) {
	// Create Gin engine without default middleware
	router := gin.New()

	// Apply custom middleware
	router.Use(gin.Recovery()) // Gin's panic recovery

	// Add CORS middleware if enabled
	if corsMiddleware := createCORSMiddleware(
		cfg.CORSEnabled,
		cfg.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	}))) // Request ID with UUIDv7
	router.Use(CustomLoggerMiddleware(s.logger)) // Custom slog logger

	// Health and readiness endpoints (outside API versioning)
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Operator bootstrap routes: create tenants, register agents and
	// phones. Gated by a static bearer token rather than AuthGate, since
	// these routes provision the identities AuthGate authenticates.
	bootstrap := router.Group("")
	bootstrap.Use(authgateHTTP.BootstrapMiddleware(cfg.BootstrapToken, s.logger))
	{
		h.Tenant.Register(bootstrap)
		h.Agent.Register(bootstrap)
		h.Phone.Register(bootstrap)
	}

	var rateLimitMiddleware gin.HandlerFunc
	if cfg.RateLimitEnabled {
		rateLimitMiddleware = authgateHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		)
	}

	// Agent-facing routes: secret metadata, retrieval, and an agent's own
	// audit query, all authenticated via X-Agent-Id/X-Timestamp/X-Signature.
	agentRoutes := router.Group("")
	agentRoutes.Use(authgateHTTP.AgentMiddleware(gate, s.logger))
	if rateLimitMiddleware != nil {
		agentRoutes.Use(rateLimitMiddleware)
	}
	{
		h.Secret.Register(agentRoutes)
		h.Retrieval.Register(agentRoutes)
		h.Audit.Register(agentRoutes)
	}

	// Phone-facing routes: list pending approvals, approve, reject. The
	// human approver's device authenticates via X-Phone-Id.
	phoneRoutes := router.Group("")
	phoneRoutes.Use(authgateHTTP.PhoneMiddleware(gate, s.logger))
	if rateLimitMiddleware != nil {
		phoneRoutes.Use(rateLimitMiddleware)
	}
	{
		h.Approval.Register(phoneRoutes)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
// Returns nil if SetupRouter has not been called yet.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	// Router must be set up before starting
	if s.router == nil {
		return fmt.Errorf("router not initialized - call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler returns a simple health check response.
func (s *Server) healthHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("health", func() (interface{}, error) {
		return gin.H{"status": "healthy"}, nil
	})
	c.JSON(http.StatusOK, v)
}

type readinessResponse struct {
	StatusCode int
	Body       gin.H
}

// readinessHandler returns a simple readiness check response.
func (s *Server) readinessHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("readiness", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		dbStatus := "ok"
		httpStatus := http.StatusOK

		if s.db == nil {
			s.logger.Error("readiness check failed: database not initialized")
			dbStatus = "error"
			httpStatus = http.StatusServiceUnavailable
		} else if err := s.db.PingContext(ctx); err != nil {
			s.logger.Error("readiness check failed: database ping error", slog.Any("err", err))
			dbStatus = "error"
			httpStatus = http.StatusServiceUnavailable
		}

		return readinessResponse{
			StatusCode: httpStatus,
			Body: gin.H{
				"status": map[int]string{
					http.StatusOK:                 "ready",
					http.StatusServiceUnavailable: "not_ready",
				}[httpStatus],
				"components": gin.H{
					"database": dbStatus,
				},
			},
		}, nil
	})

	res := v.(readinessResponse)
	c.JSON(res.StatusCode, res.Body)
}
