// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// AdventurerExists reports whether an adventurer row with id exists.
func AdventurerExists(ctx context.Context, tx store.Tx, id domain.AdventurerID) (bool, error) {
	return exists(ctx, tx, "adventurer exists",
		`SELECT EXISTS (SELECT 1 FROM adventurers WHERE id = $1)`, int64(id))
}

// EmailRegistered reports whether email belongs to an account.
func EmailRegistered(ctx context.Context, tx store.Tx, email string) (bool, error) {
	return exists(ctx, tx, "email registered",
		`SELECT EXISTS (SELECT 1 FROM adventurers WHERE email = $1)`, email)
}

// InsertAdventurer creates an account. A unique violation on email is
// reported as ACCOUNT_ALREADY_EXISTS.
func InsertAdventurer(ctx context.Context, tx store.Tx, name, email, hash, salt string) (domain.AdventurerID, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO adventurers (name, email, password_hash, password_salt)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, email, hash, salt).Scan(&id)
	if isUniqueViolation(err) {
		return 0, domain.AccountAlreadyExists()
	}
	if err != nil {
		return 0, domain.StorageError("insert adventurer", err)
	}
	return domain.AdventurerID(id), nil
}

// CredentialsByEmail loads the password material for email, or nil.
func CredentialsByEmail(ctx context.Context, tx store.Tx, email string) (*domain.Credentials, error) {
	var c domain.Credentials
	var id int64
	err := tx.QueryRow(ctx, `
		SELECT id, password_hash, password_salt FROM adventurers WHERE email = $1
	`, email).Scan(&id, &c.Hash, &c.Salt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("load credentials by email", err)
	}
	c.AdventurerID = domain.AdventurerID(id)
	return &c, nil
}

// PasswordSalt returns the stored salt of id.
func PasswordSalt(ctx context.Context, tx store.Tx, id domain.AdventurerID) (salt string, found bool, err error) {
	err = tx.QueryRow(ctx, `SELECT password_salt FROM adventurers WHERE id = $1`, int64(id)).Scan(&salt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.StorageError("load password salt", err)
	}
	return salt, true, nil
}

// UpdatePasswordHash replaces the stored hash of id.
func UpdatePasswordHash(ctx context.Context, tx store.Tx, id domain.AdventurerID, hash string) (int64, error) {
	tag, err := tx.Exec(ctx, `UPDATE adventurers SET password_hash = $2 WHERE id = $1`, int64(id), hash)
	if err != nil {
		return 0, domain.StorageError("update password hash", err)
	}
	return tag.RowsAffected(), nil
}

// GetAdventurer loads an adventurer without credentials, or nil.
func GetAdventurer(ctx context.Context, tx store.Tx, id domain.AdventurerID) (*domain.Adventurer, error) {
	var a domain.Adventurer
	var rawID int64
	err := tx.QueryRow(ctx, `SELECT id, name, email FROM adventurers WHERE id = $1`, int64(id)).
		Scan(&rawID, &a.Name, &a.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("get adventurer", err)
	}
	a.ID = domain.AdventurerID(rawID)
	return &a, nil
}

// ListAdventurers returns every adventurer ordered by id.
func ListAdventurers(ctx context.Context, tx store.Tx) ([]domain.Adventurer, error) {
	rows, err := tx.Query(ctx, `SELECT id, name, email FROM adventurers ORDER BY id`)
	if err != nil {
		return nil, domain.StorageError("list adventurers", err)
	}
	defer rows.Close()

	var out []domain.Adventurer
	for rows.Next() {
		var a domain.Adventurer
		var id int64
		if err := rows.Scan(&id, &a.Name, &a.Email); err != nil {
			return nil, domain.StorageError("scan adventurer", err)
		}
		a.ID = domain.AdventurerID(id)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list adventurers", err)
	}
	return out, nil
}

func exists(ctx context.Context, tx store.Tx, operation, sql string, args ...any) (bool, error) {
	var found bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, domain.StorageError(operation, err)
	}
	return found, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
