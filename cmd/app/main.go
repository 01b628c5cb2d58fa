// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dennisMeeQ/clavum/internal/app"
	"github.com/dennisMeeQ/clavum/internal/config"

	"github.com/dennisMeeQ/clavum/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "clavum",
		Usage:   "Secret management substrate for autonomous agents",
		Version: version,
		Commands: []*cli.Command{
			serverCommand(),
			migrateCommand(),
			createTenantCommand(),
			createAgentCommand(),
			createPhoneCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start the HTTP server",
		Action: func(ctx context.Context, c *cli.Command) error {
			return commands.RunServer(ctx, version)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Run database migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			container := app.NewContainer(cfg)
			logger := container.Logger()
			return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
		},
	}
}

func createTenantCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-tenant",
		Usage: "Provision a new tenant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Usage: "tenant name"},
			&cli.StringFlag{Name: "format", Value: "text", Usage: "output format: text or json"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			container := app.NewContainer(cfg)
			logger := container.Logger()
			defer shutdown(container, logger)

			useCase, err := container.TenantUseCase()
			if err != nil {
				return fmt.Errorf("failed to initialize tenant use case: %w", err)
			}

			return commands.RunCreateTenant(ctx, useCase, logger, c.String("name"), c.String("format"), commands.DefaultIO())
		},
	}
}

func createAgentCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-agent",
		Usage: "Register a new agent identity under a tenant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tenant-id", Required: true, Usage: "tenant UUID"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "agent name"},
			&cli.StringFlag{Name: "x25519-pub", Required: true, Usage: "base64url X25519 public key"},
			&cli.StringFlag{Name: "ed25519-pub", Required: true, Usage: "base64url Ed25519 public key"},
			&cli.StringFlag{Name: "format", Value: "text", Usage: "output format: text or json"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			container := app.NewContainer(cfg)
			logger := container.Logger()
			defer shutdown(container, logger)

			useCase, err := container.AgentUseCase()
			if err != nil {
				return fmt.Errorf("failed to initialize agent use case: %w", err)
			}

			return commands.RunCreateAgent(
				ctx, useCase, logger,
				c.String("tenant-id"), c.String("name"), c.String("x25519-pub"), c.String("ed25519-pub"), c.String("format"),
				commands.DefaultIO(),
			)
		},
	}
}

func createPhoneCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-phone",
		Usage: "Pair a human approver's phone to a tenant",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tenant-id", Required: true, Usage: "tenant UUID"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "phone name"},
			&cli.StringFlag{Name: "x25519-pub", Required: true, Usage: "base64url X25519 public key"},
			&cli.StringFlag{Name: "ed25519-pub", Required: true, Usage: "base64url Ed25519 public key"},
			&cli.StringFlag{Name: "format", Value: "text", Usage: "output format: text or json"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			container := app.NewContainer(cfg)
			logger := container.Logger()
			defer shutdown(container, logger)

			useCase, err := container.PhoneUseCase()
			if err != nil {
				return fmt.Errorf("failed to initialize phone use case: %w", err)
			}

			return commands.RunCreatePhone(
				ctx, useCase, logger,
				c.String("tenant-id"), c.String("name"), c.String("x25519-pub"), c.String("ed25519-pub"), c.String("format"),
				commands.DefaultIO(),
			)
		},
	}
}

func shutdown(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}
