// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/foliohq/folio/internal/auth"
	authpg "github.com/foliohq/folio/internal/auth/postgres"
	"github.com/foliohq/folio/internal/config"
	"github.com/foliohq/folio/internal/contact"
	contactpg "github.com/foliohq/folio/internal/contact/postgres"
	"github.com/foliohq/folio/internal/httpapi"
	"github.com/foliohq/folio/internal/logging"
	"github.com/foliohq/folio/internal/oauth"
	"github.com/foliohq/folio/internal/observability"
	"github.com/foliohq/folio/internal/status"
	statuspg "github.com/foliohq/folio/internal/status/postgres"
	"github.com/foliohq/folio/internal/store"
)

// shutdownTimeout bounds graceful shutdown of both servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the Folio API server along with the metrics and health
endpoint. Configuration comes from the config file with flag overrides.`,
		RunE: runServe,
	}

	cmd.Flags().String("server.addr", "", "API listen address")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("oauth.gateway_url", "", "OAuth gateway base URL")
	cmd.Flags().String("observability.addr", "", "metrics listen address")
	cmd.Flags().String("log.format", "", "log format (json or text)")
	cmd.Flags().Bool("auto-migrate", false, "run pending migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("folio", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if autoMigrate, _ := cmd.Flags().GetBool("auto-migrate"); autoMigrate {
		if err := migrateUp(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := authpg.NewUserRepository(pool)
	sessionRepo := authpg.NewSessionRepository(pool)
	resetRepo := authpg.NewResetTokenRepository(pool)
	hasher := auth.NewArgon2idHasher()

	authSvc, err := auth.NewServiceWithLogger(userRepo, sessionRepo, hasher, logger)
	if err != nil {
		return err
	}
	oauthSvc, err := auth.NewOAuthService(userRepo, sessionRepo, oauth.NewClient(cfg.OAuth.GatewayURL), logger)
	if err != nil {
		return err
	}
	resetSvc, err := auth.NewResetService(userRepo, sessionRepo, resetRepo, hasher, logger)
	if err != nil {
		return err
	}
	contactSvc, err := contact.NewService(contactpg.NewRepository(pool), logger)
	if err != nil {
		return err
	}
	statusSvc, err := status.NewService(statuspg.NewRepository(pool), logger)
	if err != nil {
		return err
	}

	obs := observability.NewServer(cfg.Observability.Addr, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})

	api, err := httpapi.NewServer(
		httpapi.Config{
			Addr:             cfg.Server.Addr,
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			ExposeResetToken: cfg.IsDevelopment(),
		},
		httpapi.Services{
			Auth:     authSvc,
			OAuth:    oauthSvc,
			Reset:    resetSvc,
			Contacts: contactSvc,
			Statuses: statusSvc,
		},
		obs.Metrics(),
		logger,
	)
	if err != nil {
		return err
	}

	obsErrCh, err := obs.Start()
	if err != nil {
		return err
	}
	apiErrCh, err := api.Start()
	if err != nil {
		stopObservability(obs, logger)
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-apiErrCh:
	case err = <-obsErrCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := api.Stop(shutdownCtx); stopErr != nil {
		logger.Error("api server shutdown failed", "error", stopErr)
	}
	stopObservability(obs, logger)

	if err != nil {
		return oops.Code("SERVE_FAILED").Wrap(err)
	}
	return nil
}

func stopObservability(obs *observability.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := obs.Stop(shutdownCtx); err != nil {
		logger.Error("observability server shutdown failed", "error", err)
	}
}
