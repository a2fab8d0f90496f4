// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package quest

import (
	"context"
	"log/slog"
	"time"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// Now is the clock used for lifecycle timestamps.
var Now = func() time.Time { return time.Now().UTC() }

// Accept gives adventurer a new instance of source. The instance copies the
// source's guild and name, every task (adventurer notes included) and every
// detail, and lists adventurer as its only party member.
//
// source is not required to be a template; accepting an instance creates an
// instance of that instance.
func Accept(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, source domain.QuestID) (domain.QuestID, error) {
	if err := requireAdventurer(ctx, tx, adventurer); err != nil {
		return 0, err
	}

	qtype, found, err := repository.ActiveQuestType(ctx, tx, source)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.QuestNotFound(&source)
	}
	if qtype != domain.QuestTypeTemplate {
		slog.WarnContext(ctx, "accepting a quest that is not a template",
			"adventurer_id", int64(adventurer), "quest_id", int64(source))
	}

	instance, err := repository.InsertInstance(ctx, tx, source, Now())
	if err != nil {
		return 0, err
	}
	if _, err := repository.CopyTasks(ctx, tx, source, instance); err != nil {
		return 0, err
	}
	if _, err := repository.CopyDetails(ctx, tx, source, instance); err != nil {
		return 0, err
	}
	if err := repository.InsertPartyMember(ctx, tx, adventurer, instance); err != nil {
		return 0, err
	}

	recordTransition(transitionAccept)
	return instance, nil
}

// Complete closes an instance held by adventurer. Completing an already
// closed instance keeps the first completion time.
func Complete(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, instance domain.QuestID) error {
	if err := requireMembership(ctx, tx, adventurer, instance); err != nil {
		return err
	}

	n, err := repository.MarkClosed(ctx, tx, instance, Now())
	if err != nil {
		return err
	}
	store.ExactlyOne(n, "mark quest closed")

	recordTransition(transitionComplete)
	return nil
}

// Cancel soft-deletes an instance held by adventurer.
func Cancel(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, instance domain.QuestID) error {
	if err := requireMembership(ctx, tx, adventurer, instance); err != nil {
		return err
	}

	n, err := repository.MarkDeleted(ctx, tx, instance, Now())
	if err != nil {
		return err
	}
	store.ExactlyOne(n, "mark quest deleted")

	recordTransition(transitionCancel)
	return nil
}

// requireMembership checks, in order, that the adventurer exists, that the
// quest exists and is not deleted, and that the adventurer is in its party.
func requireMembership(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, quest domain.QuestID) error {
	if err := requireAdventurer(ctx, tx, adventurer); err != nil {
		return err
	}
	if err := requireQuest(ctx, tx, quest); err != nil {
		return err
	}

	member, err := repository.IsPartyMember(ctx, tx, adventurer, quest)
	if err != nil {
		return err
	}
	if !member {
		return domain.NotPartyMember(adventurer, quest)
	}
	return nil
}

func requireAdventurer(ctx context.Context, tx store.Tx, id domain.AdventurerID) error {
	ok, err := repository.AdventurerExists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.AdventurerNotFound(&id)
	}
	return nil
}

func requireQuest(ctx context.Context, tx store.Tx, id domain.QuestID) error {
	ok, err := repository.QuestExists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.QuestNotFound(&id)
	}
	return nil
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
