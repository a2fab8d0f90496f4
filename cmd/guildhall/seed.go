// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"context"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/seed"
	"github.com/deiadventures/guildhall/internal/store"
)

const defaultSeedTimeout = 30 * time.Second

// NewInsertDemoCmd creates the insert-demo subcommand.
func NewInsertDemoCmd() *cobra.Command {
	var (
		file    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "insert-demo",
		Short: "Load demo adventurers, guilds and quest actions",
		Long: `Load a seed document into the database. Without --file the built-in
demo document is used. Rows that already exist are skipped, so the command is
safe to run more than once.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInsertDemo(cmd, file, timeout)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed document to load instead of the built-in demo")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations")

	return cmd
}

// NewValidateSeedCmd creates the validate-seed subcommand.
func NewValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed FILE",
		Short: "Check a seed document without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readSeed(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%s: valid (%d adventurers, %d guilds)\n", args[0], len(doc.Adventurers), len(doc.Guilds))
			return nil
		},
	}
}

// readSeed parses path, or the built-in demo when path is empty.
func readSeed(path string) (*seed.Document, error) {
	data := seed.Demo
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
		}
	}
	doc, err := seed.Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return doc, nil
}

func runInsertDemo(cmd *cobra.Command, file string, timeout time.Duration) error {
	doc, err := readSeed(file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cmd.Println("Hashing passwords...")
	plan, err := seed.Prepare(doc, auth.NewArgon2idHasher())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }() //nolint:errcheck // exiting anyway

	res, err := store.WriteValue(ctx, st, func(ctx context.Context, tx store.Tx) (*seed.Result, error) {
		return seed.Load(ctx, tx, plan)
	})
	if err != nil {
		return err
	}

	for _, a := range res.Adventurers {
		cmd.Printf("  adventurer %d %s\n", a.ID, a.Name)
	}
	for _, g := range res.Guilds {
		cmd.Printf("  guild %d %s\n", g.ID, g.Name)
	}
	cmd.Printf("Seed loaded: %d adventurers, %d guilds, %d quest actions created; %d existing rows skipped\n",
		len(res.Adventurers), len(res.Guilds), res.Actions, res.Skipped)
	return nil
}
