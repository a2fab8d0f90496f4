//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deiadventures/guildhall/internal/store"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("guildhall"),
		postgres.WithUsername("guildhall"),
		postgres.WithPassword("guildhall"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestOpen_MigratesAndServesTransactions(t *testing.T) {
	ctx := context.Background()
	connStr := startPostgres(t)

	s, err := store.Open(ctx, connStr, store.Options{ConnectRetries: 3, ConnectBackoff: 200 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close(ctx)

	migrator, err := store.NewMigrator(connStr)
	require.NoError(t, err)
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)

	pending, err := migrator.PendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)

	id, err := store.WriteValue(ctx, s, func(ctx context.Context, tx store.Tx) (int64, error) {
		var id int64
		err := tx.QueryRow(ctx, `INSERT INTO guilds (name) VALUES ('Green Guild') RETURNING id`).Scan(&id)
		return id, err
	})
	require.NoError(t, err)

	name, err := store.ReadValue(ctx, s, func(ctx context.Context, tx store.Tx) (string, error) {
		var name string
		err := tx.QueryRow(ctx, `SELECT name FROM guilds WHERE id = $1`, id).Scan(&name)
		return name, err
	})
	require.NoError(t, err)
	assert.Equal(t, "Green Guild", name)
}

func TestRead_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, startPostgres(t), store.Options{})
	require.NoError(t, err)
	defer s.Close(ctx)

	err = s.Read(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO guilds (name) VALUES ('nope')`)
		return err
	})
	require.Error(t, err)
}
