// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// InsertSession records a login. TimeToLive is stored in whole seconds.
func InsertSession(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, tokenHash string, ttl time.Duration) (*domain.AuthSession, error) {
	s := domain.AuthSession{AdventurerID: adventurer, TokenHash: tokenHash, TimeToLive: ttl}
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO auth_sessions (adventurer_id, token_hash, time_to_live)
		VALUES ($1, $2, $3)
		RETURNING id, start_time
	`, int64(adventurer), tokenHash, int64(ttl/time.Second)).Scan(&id, &s.StartTime)
	if err != nil {
		return nil, domain.StorageError("insert session", err)
	}
	s.ID = domain.SessionID(id)
	return &s, nil
}

// SessionByTokenHash loads the session for a token digest, or nil.
func SessionByTokenHash(ctx context.Context, tx store.Tx, tokenHash string) (*domain.AuthSession, error) {
	s := domain.AuthSession{TokenHash: tokenHash}
	var id, adventurer, ttlSeconds int64
	err := tx.QueryRow(ctx, `
		SELECT id, adventurer_id, start_time, time_to_live FROM auth_sessions WHERE token_hash = $1
	`, tokenHash).Scan(&id, &adventurer, &s.StartTime, &ttlSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("get session", err)
	}
	s.ID = domain.SessionID(id)
	s.AdventurerID = domain.AdventurerID(adventurer)
	s.TimeToLive = time.Duration(ttlSeconds) * time.Second
	return &s, nil
}

// DeleteSessionByTokenHash removes the session for a token digest.
func DeleteSessionByTokenHash(ctx context.Context, tx store.Tx, tokenHash string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM auth_sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return 0, domain.StorageError("delete session", err)
	}
	return tag.RowsAffected(), nil
}
