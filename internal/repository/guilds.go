// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// GuildExists reports whether a guild row with id exists.
func GuildExists(ctx context.Context, tx store.Tx, id domain.GuildID) (bool, error) {
	return exists(ctx, tx, "guild exists",
		`SELECT EXISTS (SELECT 1 FROM guilds WHERE id = $1)`, int64(id))
}

// InsertGuild creates a guild.
func InsertGuild(ctx context.Context, tx store.Tx, name string) (domain.GuildID, error) {
	var id int64
	if err := tx.QueryRow(ctx, `INSERT INTO guilds (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		return 0, domain.StorageError("insert guild", err)
	}
	return domain.GuildID(id), nil
}

// RenameGuild sets the name of id.
func RenameGuild(ctx context.Context, tx store.Tx, id domain.GuildID, name string) (int64, error) {
	tag, err := tx.Exec(ctx, `UPDATE guilds SET name = $2 WHERE id = $1`, int64(id), name)
	if err != nil {
		return 0, domain.StorageError("rename guild", err)
	}
	return tag.RowsAffected(), nil
}

// GuildName returns the name of id.
func GuildName(ctx context.Context, tx store.Tx, id domain.GuildID) (name string, found bool, err error) {
	err = tx.QueryRow(ctx, `SELECT name FROM guilds WHERE id = $1`, int64(id)).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.StorageError("get guild name", err)
	}
	return name, true, nil
}

// ListGuilds returns every guild with its leader, ordered by id.
func ListGuilds(ctx context.Context, tx store.Tx) ([]domain.Guild, error) {
	rows, err := tx.Query(ctx, `
		SELECT g.id, g.name, r.adventurer_id, a.name
		FROM guilds g
		LEFT JOIN adventurer_roles r ON r.guild_id = g.id AND r.assigned_role = $1
		LEFT JOIN adventurers a ON a.id = r.adventurer_id
		ORDER BY g.id
	`, domain.RoleLeader)
	if err != nil {
		return nil, domain.StorageError("list guilds", err)
	}
	defer rows.Close()

	var out []domain.Guild
	for rows.Next() {
		var (
			g        domain.Guild
			id       int64
			leaderID *int64
		)
		if err := rows.Scan(&id, &g.Name, &leaderID, &g.LeaderName); err != nil {
			return nil, domain.StorageError("scan guild", err)
		}
		g.ID = domain.GuildID(id)
		if leaderID != nil {
			leader := domain.AdventurerID(*leaderID)
			g.LeaderID = &leader
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list guilds", err)
	}
	return out, nil
}

// GuildLeader returns the leader of id, or nil when the guild has none.
func GuildLeader(ctx context.Context, tx store.Tx, id domain.GuildID) (*domain.AdventurerID, error) {
	var leader int64
	err := tx.QueryRow(ctx, `
		SELECT adventurer_id FROM adventurer_roles WHERE guild_id = $1 AND assigned_role = $2
	`, int64(id), domain.RoleLeader).Scan(&leader)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("get guild leader", err)
	}
	out := domain.AdventurerID(leader)
	return &out, nil
}

// ClearGuildLeader removes the leader role rows of id.
func ClearGuildLeader(ctx context.Context, tx store.Tx, id domain.GuildID) (int64, error) {
	tag, err := tx.Exec(ctx, `
		DELETE FROM adventurer_roles WHERE guild_id = $1 AND assigned_role = $2
	`, int64(id), domain.RoleLeader)
	if err != nil {
		return 0, domain.StorageError("clear guild leader", err)
	}
	return tag.RowsAffected(), nil
}

// InsertGuildLeader gives adventurer the leader role in guild. The caller
// clears any previous leader first.
func InsertGuildLeader(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, guild domain.GuildID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO adventurer_roles (adventurer_id, guild_id, assigned_role) VALUES ($1, $2, $3)
	`, int64(adventurer), int64(guild), domain.RoleLeader)
	if isUniqueViolation(err) {
		store.Invariant(false, "guild already has a leader", "guild_id", int64(guild))
	}
	if err != nil {
		return domain.StorageError("insert guild leader", err)
	}
	return nil
}

// IsGuildLeader reports whether adventurer leads guild.
func IsGuildLeader(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, guild domain.GuildID) (bool, error) {
	return exists(ctx, tx, "is guild leader", `
		SELECT EXISTS (
			SELECT 1 FROM adventurer_roles
			WHERE adventurer_id = $1 AND guild_id = $2 AND assigned_role = $3
		)`, int64(adventurer), int64(guild), domain.RoleLeader)
}

// Roles returns every role row grouped by adventurer.
func Roles(ctx context.Context, tx store.Tx) (map[domain.AdventurerID][]domain.Role, error) {
	rows, err := tx.Query(ctx, `
		SELECT adventurer_id, guild_id, assigned_role FROM adventurer_roles ORDER BY adventurer_id, guild_id
	`)
	if err != nil {
		return nil, domain.StorageError("list roles", err)
	}
	defer rows.Close()

	out := make(map[domain.AdventurerID][]domain.Role)
	for rows.Next() {
		var adventurer, guild int64
		var role string
		if err := rows.Scan(&adventurer, &guild, &role); err != nil {
			return nil, domain.StorageError("scan role", err)
		}
		id := domain.AdventurerID(adventurer)
		out[id] = append(out[id], domain.Role{GuildID: domain.GuildID(guild), Name: role})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list roles", err)
	}
	return out, nil
}
