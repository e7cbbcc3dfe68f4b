// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	authpg "github.com/foliohq/folio/internal/auth/postgres"
	"github.com/foliohq/folio/internal/config"
	"github.com/foliohq/folio/internal/store"
)

// NewSweepCmd creates the sweep subcommand.
func NewSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired sessions and reset tokens",
		Long: `Delete expired sessions and password reset tokens. Expired rows
are harmless at rest but accumulate; run this periodically from cron.`,
		RunE: runSweep,
	}

	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger := slog.Default()
	ctx := cmd.Context()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions, err := authpg.NewSessionRepository(pool).DeleteExpired(ctx)
	if err != nil {
		return err
	}
	resets, err := authpg.NewResetTokenRepository(pool).DeleteExpired(ctx)
	if err != nil {
		return err
	}

	logger.Info("sweep completed", "sessions_deleted", sessions, "reset_tokens_deleted", resets)
	cmd.Printf("Deleted %d expired sessions and %d expired reset tokens\n", sessions, resets)
	return nil
}
