package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	phoneUsecase "github.com/dennisMeeQ/clavum/internal/phone/usecase"
)

// RunCreatePhone pairs the human approver's device to a tenant from its
// base64url-encoded X25519 and Ed25519 public keys. A tenant has at most one
// paired phone.
func RunCreatePhone(
	ctx context.Context,
	useCase *phoneUsecase.PhoneUseCase,
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

	logger.Info("pairing new phone", slog.String("tenant_id", tenantIDStr), slog.String("name", name))

	p, err := useCase.Register(ctx, phoneUsecase.RegisterInput{
		TenantID:   tenantID,
		Name:       name,
		X25519Pub:  x25519Pub,
		Ed25519Pub: ed25519Pub,
	})
	if err != nil {
		return fmt.Errorf("failed to pair phone: %w", err)
	}

	if format == "json" {
		result := map[string]string{
			"phone_id":  p.ID.String(),
			"tenant_id": p.TenantID.String(),
			"name":      p.Name,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nPhone paired successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Phone ID: %s\n", p.ID.String())
	}

	logger.Info("phone paired successfully", slog.String("phone_id", p.ID.String()))

	return nil
}
