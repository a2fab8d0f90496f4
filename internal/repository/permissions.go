// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// InsertPermission grants p to adventurer. Granting a held flag affects no rows.
func InsertPermission(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, p domain.PermissionType) (int64, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO permissions (adventurer_id, permission_type) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, int64(adventurer), int16(p))
	if err != nil {
		return 0, domain.StorageError("insert permission", err)
	}
	return tag.RowsAffected(), nil
}

// DeletePermission revokes p from adventurer.
func DeletePermission(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, p domain.PermissionType) (int64, error) {
	tag, err := tx.Exec(ctx, `
		DELETE FROM permissions WHERE adventurer_id = $1 AND permission_type = $2
	`, int64(adventurer), int16(p))
	if err != nil {
		return 0, domain.StorageError("delete permission", err)
	}
	return tag.RowsAffected(), nil
}

// HasPermission reports whether adventurer holds p.
func HasPermission(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, p domain.PermissionType) (bool, error) {
	return exists(ctx, tx, "has permission", `
		SELECT EXISTS (SELECT 1 FROM permissions WHERE adventurer_id = $1 AND permission_type = $2)
	`, int64(adventurer), int16(p))
}

// Permissions returns every permission row grouped by adventurer.
func Permissions(ctx context.Context, tx store.Tx) (map[domain.AdventurerID][]domain.PermissionType, error) {
	rows, err := tx.Query(ctx, `
		SELECT adventurer_id, permission_type FROM permissions ORDER BY adventurer_id, permission_type
	`)
	if err != nil {
		return nil, domain.StorageError("list permissions", err)
	}
	defer rows.Close()

	out := make(map[domain.AdventurerID][]domain.PermissionType)
	for rows.Next() {
		var adventurer int64
		var p int16
		if err := rows.Scan(&adventurer, &p); err != nil {
			return nil, domain.StorageError("scan permission", err)
		}
		id := domain.AdventurerID(adventurer)
		out[id] = append(out[id], domain.PermissionType(p))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list permissions", err)
	}
	return out, nil
}

// AdventurersWithAny returns the adventurers holding at least one of perms.
func AdventurersWithAny(ctx context.Context, tx store.Tx, perms ...domain.PermissionType) ([]domain.Adventurer, error) {
	codes := make([]int16, len(perms))
	for i, p := range perms {
		codes[i] = int16(p)
	}

	rows, err := tx.Query(ctx, `
		SELECT a.id, a.name, a.email FROM adventurers a
		WHERE EXISTS (
			SELECT 1 FROM permissions p
			WHERE p.adventurer_id = a.id AND p.permission_type = ANY($1)
		)
		ORDER BY a.id
	`, codes)
	if err != nil {
		return nil, domain.StorageError("list adventurers by permission", err)
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
		return nil, domain.StorageError("list adventurers by permission", err)
	}
	return out, nil
}
