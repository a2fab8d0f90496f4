// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// Tables with an identity id column.
var sequencedTables = map[string]bool{
	"guilds":        true,
	"adventurers":   true,
	"quests":        true,
	"quest_tasks":   true,
	"quest_details": true,
	"auth_sessions": true,
}

// NextInsertID predicts the id the next insert into table will receive.
// Inserts in this package use RETURNING; this is for callers that need an id
// before writing, such as reporting what a seed run is about to create.
func NextInsertID(ctx context.Context, tx store.Tx, table string) (int64, error) {
	if !sequencedTables[table] {
		return 0, oops.Code("UNKNOWN_TABLE").With("table", table).Errorf("table %q has no id sequence", table)
	}

	var next int64
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(s.last_value + s.increment_by, s.start_value)
		FROM pg_sequences s
		WHERE format('%I.%I', s.schemaname, s.sequencename) = pg_get_serial_sequence($1, 'id')
	`, table).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		store.Invariant(false, "identity sequence missing", "table", table)
	}
	if err != nil {
		return 0, domain.StorageError("next insert id", err)
	}
	return next, nil
}
