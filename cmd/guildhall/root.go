// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deiadventures/guildhall/internal/config"
	"github.com/deiadventures/guildhall/internal/logging"
	"github.com/deiadventures/guildhall/internal/store"
)

const serviceName = "guildhall"

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guildhall",
		Short: "Guildhall - guilds, quests and adventurers for DEI Adventures",
		Long: `Guildhall serves the DEI Adventures API: guilds publish quest actions,
adventurers accept and complete them, and superusers manage permissions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewAddAdminCmd())
	cmd.AddCommand(NewHashPasswordCmd())
	cmd.AddCommand(NewInsertDemoCmd())
	cmd.AddCommand(NewValidateSeedCmd())

	return cmd
}

// loadConfig resolves and validates the configuration for cmd, then installs
// the default logger it describes.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(serviceName, version, cfg.Log.Format, level)
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	return store.Open(ctx, cfg.Database.URL, store.Options{
		ConnectRetries: cfg.Database.ConnectRetries,
		ConnectBackoff: cfg.Database.ConnectBackoff,
	})
}
