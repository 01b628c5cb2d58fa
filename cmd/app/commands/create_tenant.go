package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	tenantUsecase "github.com/dennisMeeQ/clavum/internal/tenant/usecase"
)

// RunCreateTenant provisions a new tenant and prints its ID and X25519
// server public key. The corresponding server private key never leaves the
// database; operators only ever see the public half.
func RunCreateTenant(
	ctx context.Context,
	useCase *tenantUsecase.TenantUseCase,
	logger *slog.Logger,
	name string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new tenant", slog.String("name", name))

	t, err := useCase.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	serverPub := base64.RawURLEncoding.EncodeToString(t.ServerPub)

	if format == "json" {
		result := map[string]string{
			"tenant_id":  t.ID.String(),
			"name":       t.Name,
			"server_pub": serverPub,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nTenant created successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Tenant ID: %s\n", t.ID.String())
		_, _ = fmt.Fprintf(io.Writer, "Server public key: %s\n", serverPub)
	}

	logger.Info("tenant created successfully", slog.String("tenant_id", t.ID.String()))

	return nil
}
