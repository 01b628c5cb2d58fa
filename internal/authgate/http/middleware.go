// Package http wires the AuthGate pipeline into gin as a pair of
// middlewares, one per identity kind.
package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dennisMeeQ/clavum/internal/authgate/domain"
	"github.com/dennisMeeQ/clavum/internal/authgate/usecase"
	"github.com/dennisMeeQ/clavum/internal/httputil"
)

type identityContextKey struct{}

// WithIdentity stores the authenticated identity in ctx.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from ctx, if any.
func GetIdentity(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*domain.Identity)
	return identity, ok
}

// AgentMiddleware authenticates a request as an agent via X-Agent-Id,
// X-Timestamp, and X-Signature.
func AgentMiddleware(gate *usecase.AuthGate, logger *slog.Logger) gin.HandlerFunc {
	return authMiddleware(gate, domain.IdentityAgent, "X-Agent-Id", logger)
}

// PhoneMiddleware authenticates a request as a phone via X-Phone-Id,
// X-Timestamp, and X-Signature.
func PhoneMiddleware(gate *usecase.AuthGate, logger *slog.Logger) gin.HandlerFunc {
	return authMiddleware(gate, domain.IdentityPhone, "X-Phone-Id", logger)
}

func authMiddleware(gate *usecase.AuthGate, kind domain.IdentityKind, identityHeader string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				httputil.HandleErrorGin(c, domain.ErrUnauthenticated, logger)
				c.Abort()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		req := usecase.Request{
			Kind:            kind,
			IdentityID:      c.GetHeader(identityHeader),
			TimestampHeader: c.GetHeader("X-Timestamp"),
			SignatureB64URL: c.GetHeader("X-Signature"),
			Method:          c.Request.Method,
			Path:            c.Request.URL.Path,
			Body:            body,
		}

		identity, err := gate.Authenticate(c.Request.Context(), req)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}
