// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/deiadventures/guildhall/internal/store"
)

// NewMigrateCmd creates the migrate subcommand. Without a subcommand it
// applies pending migrations.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long: `Apply, inspect or repair the database schema. The migrations are
embedded in the binary, so the schema always matches the running version.`,
		RunE: runMigrateUp,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied and pending migrations",
		RunE:  runMigrateStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Record VERSION as applied and clear the dirty flag",
		Long: `Record VERSION as the applied schema version without running any
migration. Use it after repairing a migration that failed partway.`,
		Args: cobra.ExactArgs(1),
		RunE: runMigrateForce,
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(m *store.Migrator) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(migrator)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		pending, err := m.PendingMigrations()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			cmd.Println("Schema is up to date")
			return nil
		}

		cmd.Printf("Applying %d migration(s)...\n", len(pending))
		if err := m.EnsureCurrent(); err != nil {
			return err
		}
		version, _, err := m.Version()
		if err != nil {
			return err
		}
		cmd.Printf("Migrations completed successfully (version %d)\n", version)
		return nil
	})
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		latest, err := store.LatestVersion()
		if err != nil {
			return err
		}
		pending, err := m.PendingMigrations()
		if err != nil {
			return err
		}

		cmd.Printf("Current version: %s\n", describeVersion(version))
		cmd.Printf("Latest version:  %s\n", describeVersion(latest))
		if dirty {
			cmd.Println("Schema is DIRTY: repair it, then run 'guildhall migrate force VERSION'")
		}
		if len(pending) == 0 {
			cmd.Println("No pending migrations")
			return nil
		}
		cmd.Println("Pending migrations:")
		for _, v := range pending {
			cmd.Printf("  %s\n", describeVersion(v))
		}
		return nil
	})
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := parseForceVersion(args[0])
	if err != nil {
		return err
	}
	return withMigrator(cmd, func(m *store.Migrator) error {
		if err := m.Force(version); err != nil {
			return err
		}
		cmd.Printf("Forced schema version to %d\n", version)
		return nil
	})
}

// parseForceVersion reads the leading integer of s.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("invalid version %q: must be an integer", s)
	}
	if version < 0 {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("version must be non-negative, got %d", version)
	}
	return version, nil
}

func describeVersion(v uint) string {
	if v == 0 {
		return "0 (empty)"
	}
	name, err := store.MigrationName(v)
	if err != nil || name == "" {
		return fmt.Sprintf("%d", v)
	}
	return name
}
