// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package guild administers guilds and their leaders.
package guild

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// CodeInvalidName is returned when a guild name is blank.
const CodeInvalidName = "INVALID_GUILD_NAME"

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return oops.Code(CodeInvalidName).Errorf("guild name is required")
	}
	return nil
}

// Create inserts a guild without a leader.
func Create(ctx context.Context, tx store.Tx, name string) (domain.GuildID, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}
	return repository.InsertGuild(ctx, tx, name)
}

// Name returns the name of id.
func Name(ctx context.Context, tx store.Tx, id domain.GuildID) (string, error) {
	name, found, err := repository.GuildName(ctx, tx, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domain.GuildNotFound(&id)
	}
	return name, nil
}

// Rename changes the name of id.
func Rename(ctx context.Context, tx store.Tx, id domain.GuildID, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := requireGuild(ctx, tx, id); err != nil {
		return err
	}
	n, err := repository.RenameGuild(ctx, tx, id, name)
	if err != nil {
		return err
	}
	store.ExactlyOne(n, "rename guild")
	return nil
}

// Leader returns the leader of id, or nil when it has none.
func Leader(ctx context.Context, tx store.Tx, id domain.GuildID) (*domain.AdventurerID, error) {
	if err := requireGuild(ctx, tx, id); err != nil {
		return nil, err
	}
	return repository.GuildLeader(ctx, tx, id)
}

// SetLeader replaces the leader of id. A nil leader leaves the guild
// without one.
func SetLeader(ctx context.Context, tx store.Tx, id domain.GuildID, leader *domain.AdventurerID) error {
	if err := requireGuild(ctx, tx, id); err != nil {
		return err
	}
	if leader != nil {
		ok, err := repository.AdventurerExists(ctx, tx, *leader)
		if err != nil {
			return err
		}
		if !ok {
			return domain.AdventurerNotFound(leader)
		}
	}

	n, err := repository.ClearGuildLeader(ctx, tx, id)
	if err != nil {
		return err
	}
	store.AtMostOne(n, "clear guild leader")

	if leader == nil {
		return nil
	}
	return repository.InsertGuildLeader(ctx, tx, *leader, id)
}

// Update renames id and replaces its leader in one step.
func Update(ctx context.Context, tx store.Tx, id domain.GuildID, name string, leader *domain.AdventurerID) error {
	if err := Rename(ctx, tx, id, name); err != nil {
		return err
	}
	return SetLeader(ctx, tx, id, leader)
}

// List returns every guild with its leader's name.
func List(ctx context.Context, tx store.Tx) ([]domain.Guild, error) {
	return repository.ListGuilds(ctx, tx)
}

func requireGuild(ctx context.Context, tx store.Tx, id domain.GuildID) error {
	ok, err := repository.GuildExists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.GuildNotFound(&id)
	}
	return nil
}
