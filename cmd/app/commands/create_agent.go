package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	agentUsecase "github.com/dennisMeeQ/clavum/internal/agent/usecase"
)

// RunCreateAgent registers a new agent identity under a tenant from its
// base64url-encoded X25519 and Ed25519 public keys.
func RunCreateAgent(
	ctx context.Context,
	useCase *agentUsecase.AgentUseCase,
	logger *slog.Logger,
	tenantIDStr, name, x25519PubB64, ed25519PubB64, format string,
	io IOTuple,
) error {
	tenantID, err := uuid.Parse(tenantIDStr)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	x25519Pub, err := base64.RawURLEncoding.DecodeString(x25519PubB64)
	if err != nil {
		return fmt.Errorf("invalid x25519 public key: %w", err)
	}

	ed25519Pub, err := base64.RawURLEncoding.DecodeString(ed25519PubB64)
	if err != nil {
		return fmt.Errorf("invalid ed25519 public key: %w", err)
	}

	logger.Info("creating new agent", slog.String("tenant_id", tenantIDStr), slog.String("name", name))

	a, err := useCase.Register(ctx, agentUsecase.RegisterInput{
		TenantID:   tenantID,
		Name:       name,
		X25519Pub:  x25519Pub,
		Ed25519Pub: ed25519Pub,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	if format == "json" {
		result := map[string]string{
			"agent_id":  a.ID.String(),
			"tenant_id": a.TenantID.String(),
			"name":      a.Name,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nAgent created successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Agent ID: %s\n", a.ID.String())
	}

	logger.Info("agent created successfully", slog.String("agent_id", a.ID.String()))

	return nil
}
