// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the Folio CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Folio - personal portfolio backend",
		Long: `Folio is the backend for a personal portfolio site: contact form
intake, email/password and Google sign-in, and a small admin surface.`,
	}

	cmd.PersistentFlags().String("config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSweepCmd())

	return cmd
}
