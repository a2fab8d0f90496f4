//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package pgtest starts a throwaway PostgreSQL for integration tests.
package pgtest

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deiadventures/guildhall/internal/store"
)

// Database is a running container with a migrated Store on top.
type Database struct {
	URL       string
	Store     *store.Store
	container *postgres.PostgresContainer
}

// Start runs postgres:16-alpine and opens a Store against it.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("guildhall_test"),
		postgres.WithUsername("guildhall"),
		postgres.WithPassword("guildhall"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	s, err := store.Open(ctx, connStr, store.Options{ConnectRetries: 5, ConnectBackoff: 200 * time.Millisecond})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{URL: connStr, Store: s, container: container}, nil
}

// Reset empties every table and restarts identity sequences.
func (d *Database) Reset(ctx context.Context) error {
	return d.Store.Write(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Exec(ctx, `
			TRUNCATE auth_sessions, permissions, adventurer_roles, party_members,
				quest_details, quest_tasks, quests, adventurers, guilds
			RESTART IDENTITY
		`)
		return err
	})
}

// Stop closes the Store and terminates the container.
func (d *Database) Stop(ctx context.Context) {
	_ = d.Store.Close(ctx)
	_ = d.container.Terminate(ctx)
}
