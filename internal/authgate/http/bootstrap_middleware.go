package http

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dennisMeeQ/clavum/internal/authgate/domain"
	"github.com/dennisMeeQ/clavum/internal/httputil"
)

// BootstrapMiddleware gates the operator-only tenant/agent/phone
// provisioning endpoints behind a single static bearer token, configured
// out of band from the per-agent and per-phone Ed25519 identities
// AgentMiddleware/PhoneMiddleware verify. It is deliberately simpler than
// AuthGate: these routes exist to provision the identities AuthGate
// authenticates, so they cannot depend on one already existing.
func BootstrapMiddleware(token string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			httputil.HandleErrorGin(c, domain.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			httputil.HandleErrorGin(c, domain.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		presented := strings.TrimPrefix(header, prefix)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			httputil.HandleErrorGin(c, domain.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
