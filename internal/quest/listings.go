// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package quest

import (
	"context"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// Available lists the templates adventurer can accept: every active template
// that is repeatable or of which they hold no non-deleted instance.
func Available(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID) ([]domain.QuestAction, error) {
	if err := requireAdventurer(ctx, tx, adventurer); err != nil {
		return nil, err
	}
	return repository.AvailableActions(ctx, tx, adventurer)
}

// Accepted lists the open instances adventurer holds.
func Accepted(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID) ([]domain.AcceptedAction, error) {
	if err := requireAdventurer(ctx, tx, adventurer); err != nil {
		return nil, err
	}
	return repository.AcceptedActions(ctx, tx, adventurer)
}

// Completed lists the closed instances adventurer holds.
func Completed(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID) ([]domain.CompletedAction, error) {
	if err := requireAdventurer(ctx, tx, adventurer); err != nil {
		return nil, err
	}
	return repository.CompletedActions(ctx, tx, adventurer)
}

// GuildActions lists the active templates of guild.
func GuildActions(ctx context.Context, tx store.Tx, guild domain.GuildID) ([]domain.QuestAction, error) {
	if err := requireGuild(ctx, tx, guild); err != nil {
		return nil, err
	}
	return repository.GuildActions(ctx, tx, guild)
}

// AllGuildActions bundles every guild with its active templates. Guilds
// without templates are included with an empty list.
func AllGuildActions(ctx context.Context, tx store.Tx) ([]domain.GuildActions, error) {
	guilds, err := repository.ListGuilds(ctx, tx)
	if err != nil {
		return nil, err
	}
	actions, err := repository.ActiveActions(ctx, tx)
	if err != nil {
		return nil, err
	}

	byGuild := make(map[domain.GuildID][]domain.QuestAction, len(guilds))
	for _, a := range actions {
		byGuild[a.GuildID] = append(byGuild[a.GuildID], a)
	}

	out := make([]domain.GuildActions, 0, len(guilds))
	for _, g := range guilds {
		out = append(out, domain.GuildActions{
			GuildID:   g.ID,
			GuildName: g.Name,
			Actions:   byGuild[g.ID],
		})
	}
	return out, nil
}

// Participation lists the adventurers holding a non-deleted instance of
// template.
func Participation(ctx context.Context, tx store.Tx, template domain.QuestID) ([]domain.Participant, error) {
	if err := requireQuest(ctx, tx, template); err != nil {
		return nil, err
	}
	return repository.TemplateParticipants(ctx, tx, template)
}

// GuildParticipation lists the adventurers holding a non-deleted instance of
// any template of guild.
func GuildParticipation(ctx context.Context, tx store.Tx, guild domain.GuildID) ([]domain.Participant, error) {
	if err := requireGuild(ctx, tx, guild); err != nil {
		return nil, err
	}
	return repository.GuildParticipants(ctx, tx, guild)
}
