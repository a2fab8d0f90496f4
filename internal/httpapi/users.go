// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"context"
	"net/http"

	"github.com/deiadventures/guildhall/internal/adventurer"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/quest"
	"github.com/deiadventures/guildhall/internal/store"
)

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := store.ReadValue(r.Context(), a.store, adventurer.List)
	if err != nil {
		return err
	}
	out := make([]userSummaryDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserSummary(u))
	}
	return ok(w, out)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	user, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (*domain.AdventurerSummary, error) {
		return adventurer.Get(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	return ok(w, toUserSummary(*user))
}

func (a *API) acceptQuest(w http.ResponseWriter, r *http.Request) error {
	user, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	var req questRefRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	source, err := req.id()
	if err != nil {
		return err
	}

	instance, err := store.WriteValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (domain.QuestID, error) {
		if err := a.requireSelf(ctx, tx, r, user); err != nil {
			return 0, err
		}
		return quest.Accept(ctx, tx, user, source)
	})
	if err != nil {
		return err
	}
	id := int64(instance)
	return ok(w, questRefRequest{QuestID: &id})
}

func (a *API) completeQuest(w http.ResponseWriter, r *http.Request) error {
	return a.transition(w, r, quest.Complete)
}

func (a *API) cancelQuest(w http.ResponseWriter, r *http.Request) error {
	return a.transition(w, r, quest.Cancel)
}

type transitionFunc func(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, instance domain.QuestID) error

func (a *API) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) error {
	user, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	var req questRefRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	instance, err := req.id()
	if err != nil {
		return err
	}

	err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
		if err := a.requireSelf(ctx, tx, r, user); err != nil {
			return err
		}
		return fn(ctx, tx, user, instance)
	})
	if err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) acceptedActions(w http.ResponseWriter, r *http.Request) error {
	user, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	actions, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) ([]domain.AcceptedAction, error) {
		return quest.Accepted(ctx, tx, user)
	})
	if err != nil {
		return err
	}
	out := make([]acceptedActionDTO, 0, len(actions))
	for _, q := range actions {
		out = append(out, acceptedActionDTO{
			GuildID:        int64(q.GuildID),
			QuestID:        int64(q.QuestID),
			TaskName:       q.Name,
			TaskDesc:       q.Description,
			AdventurerNote: q.AdventurerNote,
			XP:             q.XP,
			OpenDate:       jsTime(q.AcceptedDate),
		})
	}
	return ok(w, out)
}

func (a *API) completedActions(w http.ResponseWriter, r *http.Request) error {
	user, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	actions, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) ([]domain.CompletedAction, error) {
		return quest.Completed(ctx, tx, user)
	})
	if err != nil {
		return err
	}
	out := make([]completedActionDTO, 0, len(actions))
	for _, q := range actions {
		out = append(out, completedActionDTO{
			GuildID:       int64(q.GuildID),
			QuestID:       int64(q.QuestID),
			TaskName:      q.Name,
			TaskDesc:      q.Description,
			XP:            q.XP,
			AcceptedDate:  jsTime(q.AcceptedDate),
			CompletedDate: q.CompletedDate.UnixMilli(),
		})
	}
	return ok(w, out)
}

func (a *API) availableActions(w http.ResponseWriter, r *http.Request) error {
	user, err := pathAdventurer(r)
	if err != nil {
		return err
	}
	actions, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) ([]domain.QuestAction, error) {
		return quest.Available(ctx, tx, user)
	})
	if err != nil {
		return err
	}
	out := make([]availableActionDTO, 0, len(actions))
	for _, q := range actions {
		out = append(out, availableActionDTO{
			GuildID:        int64(q.GuildID),
			QuestID:        int64(q.ID),
			TaskName:       q.Name,
			TaskDesc:       q.Description,
			AdventurerNote: q.AdventurerNote,
			XP:             q.XP,
			Repeatable:     q.Repeatable,
		})
	}
	return ok(w, out)
}
