// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package permission grants and revokes adventurer permission flags and
// answers the authorization questions built on them.
package permission

import (
	"context"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// Set grants p to adventurer when desired is true and revokes it otherwise.
// Granting Approved revokes Rejected and the reverse. Setting a flag to the
// state it is already in changes nothing.
func Set(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, p domain.PermissionType, desired bool) error {
	ok, err := repository.AdventurerExists(ctx, tx, adventurer)
	if err != nil {
		return err
	}
	if !ok {
		return domain.AdventurerNotFound(&adventurer)
	}

	if !desired {
		n, err := repository.DeletePermission(ctx, tx, adventurer, p)
		if err != nil {
			return err
		}
		store.AtMostOne(n, "revoke permission")
		return nil
	}

	n, err := repository.InsertPermission(ctx, tx, adventurer, p)
	if err != nil {
		return err
	}
	store.AtMostOne(n, "grant permission")

	if opposite, ok := p.Opposite(); ok {
		n, err := repository.DeletePermission(ctx, tx, adventurer, opposite)
		if err != nil {
			return err
		}
		store.AtMostOne(n, "revoke opposite permission")
	}
	return nil
}

// Has reports whether adventurer holds p.
func Has(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, p domain.PermissionType) (bool, error) {
	return repository.HasPermission(ctx, tx, adventurer, p)
}

// AllowedLeaders lists the adventurers who may be made guild leader: those
// eligible for leadership and superusers.
func AllowedLeaders(ctx context.Context, tx store.Tx) ([]domain.Adventurer, error) {
	return repository.AdventurersWithAny(ctx, tx, domain.PermissionGuildLeaderEligible, domain.PermissionSuperUser)
}

// RequireSuperUser fails with INSUFFICIENT_PERMISSIONS unless actor is a
// superuser.
func RequireSuperUser(ctx context.Context, tx store.Tx, actor domain.AdventurerID) error {
	ok, err := Has(ctx, tx, actor, domain.PermissionSuperUser)
	if err != nil {
		return err
	}
	if !ok {
		return domain.InsufficientPermissions("superuser permission required")
	}
	return nil
}

// RequireSelfOrSuperUser allows actor to act on target when they are the
// same adventurer or actor is a superuser.
func RequireSelfOrSuperUser(ctx context.Context, tx store.Tx, actor, target domain.AdventurerID) error {
	if actor == target {
		return nil
	}
	ok, err := Has(ctx, tx, actor, domain.PermissionSuperUser)
	if err != nil {
		return err
	}
	if !ok {
		return domain.InsufficientPermissions("cannot act on behalf of another adventurer")
	}
	return nil
}

// RequireGuildLeaderOrSuperUser allows actor to manage guild when they lead
// it or are a superuser.
func RequireGuildLeaderOrSuperUser(ctx context.Context, tx store.Tx, actor domain.AdventurerID, guild domain.GuildID) error {
	leads, err := repository.IsGuildLeader(ctx, tx, actor, guild)
	if err != nil {
		return err
	}
	if leads {
		return nil
	}
	return RequireSuperUser(ctx, tx, actor)
}
