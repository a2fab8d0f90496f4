// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"context"
	"net/http"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/guild"
	"github.com/deiadventures/guildhall/internal/quest"
	"github.com/deiadventures/guildhall/internal/store"
)

func (a *API) listGuilds(w http.ResponseWriter, r *http.Request) error {
	guilds, err := store.ReadValue(r.Context(), a.store, guild.List)
	if err != nil {
		return err
	}
	out := make([]guildDTO, 0, len(guilds))
	for _, g := range guilds {
		dto := guildDTO{ID: int64(g.ID), Name: g.Name, LeaderName: g.LeaderName}
		if g.LeaderID != nil {
			leader := int64(*g.LeaderID)
			dto.LeaderID = &leader
		}
		out = append(out, dto)
	}
	return ok(w, out)
}

func (a *API) createGuild(w http.ResponseWriter, r *http.Request) error {
	var req guildRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	id, err := store.WriteValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (domain.GuildID, error) {
		if err := a.requireSuperUser(ctx, tx, r); err != nil {
			return 0, err
		}
		id, err := guild.Create(ctx, tx, req.Name)
		if err != nil {
			return 0, err
		}
		if leader := req.leader(); leader != nil {
			if err := guild.SetLeader(ctx, tx, id, leader); err != nil {
				return 0, err
			}
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	return ok(w, int64(id))
}

func (a *API) updateGuild(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	var req guildRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
		if err := a.requireSuperUser(ctx, tx, r); err != nil {
			return err
		}
		return guild.Update(ctx, tx, id, req.Name, req.leader())
	})
	if err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) guildName(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	name, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (string, error) {
		return guild.Name(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	return ok(w, name)
}

func (a *API) renameGuild(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	var name string
	if err := decode(r, &name); err != nil {
		return err
	}
	err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
		if err := a.requireSuperUser(ctx, tx, r); err != nil {
			return err
		}
		return guild.Rename(ctx, tx, id, name)
	})
	if err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) guildLeader(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	leader, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (*domain.AdventurerID, error) {
		return guild.Leader(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	if leader == nil {
		return ok(w, nil)
	}
	return ok(w, leaderDTO{ID: int64(*leader)})
}

func (a *API) setGuildLeader(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	var req setLeaderRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	var leader *domain.AdventurerID
	if req.ID != nil {
		l := domain.AdventurerID(*req.ID)
		leader = &l
	}
	err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
		if err := a.requireSuperUser(ctx, tx, r); err != nil {
			return err
		}
		return guild.SetLeader(ctx, tx, id, leader)
	})
	if err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) guildActions(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	actions, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) ([]domain.QuestAction, error) {
		return quest.GuildActions(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	return ok(w, toGuildActions(actions))
}

func (a *API) allGuildActions(w http.ResponseWriter, r *http.Request) error {
	bundles, err := store.ReadValue(r.Context(), a.store, quest.AllGuildActions)
	if err != nil {
		return err
	}
	out := make([]guildBundleDTO, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, guildBundleDTO{
			GuildID:           int64(b.GuildID),
			GuildTitle:        b.GuildName,
			GuildQuestActions: toGuildActions(b.Actions),
		})
	}
	return ok(w, out)
}

func (a *API) guildParticipation(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}

	type snapshot struct {
		actions      []domain.QuestAction
		participants []domain.Participant
	}
	snap, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (snapshot, error) {
		actions, err := quest.GuildActions(ctx, tx, id)
		if err != nil {
			return snapshot{}, err
		}
		participants, err := quest.GuildParticipation(ctx, tx, id)
		if err != nil {
			return snapshot{}, err
		}
		return snapshot{actions: actions, participants: participants}, nil
	})
	if err != nil {
		return err
	}

	byTemplate := make(map[domain.QuestID][]participantDTO, len(snap.actions))
	for _, p := range snap.participants {
		byTemplate[p.TemplateID] = append(byTemplate[p.TemplateID], toParticipant(p))
	}
	out := guildParticipationDTO{QuestActions: make([]actionParticipationDTO, 0, len(snap.actions))}
	for _, action := range snap.actions {
		adventurers := byTemplate[action.ID]
		if adventurers == nil {
			adventurers = []participantDTO{}
		}
		out.QuestActions = append(out.QuestActions, actionParticipationDTO{
			QuestID:     int64(action.ID),
			Adventurers: adventurers,
		})
	}
	return ok(w, out)
}

func (a *API) createAction(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	var req actionRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	created, err := store.WriteValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (domain.QuestID, error) {
		if err := a.requireGuildLeader(ctx, tx, r, id); err != nil {
			return 0, err
		}
		return quest.CreateAction(ctx, tx, id, req.action())
	})
	if err != nil {
		return err
	}
	questID := int64(created)
	return ok(w, questRefRequest{QuestID: &questID})
}

func (a *API) editAction(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	var req actionRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	target, err := questRefRequest{QuestID: req.QuestID}.id()
	if err != nil {
		return err
	}
	err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
		if err := a.requireGuildLeader(ctx, tx, r, id); err != nil {
			return err
		}
		return quest.EditAction(ctx, tx, id, target, req.action())
	})
	if err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) retireAction(w http.ResponseWriter, r *http.Request) error {
	id, err := pathGuild(r)
	if err != nil {
		return err
	}
	var req questRefRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	target, err := req.id()
	if err != nil {
		return err
	}
	err = a.store.Write(r.Context(), func(ctx context.Context, tx store.Tx) error {
		if err := a.requireGuildLeader(ctx, tx, r, id); err != nil {
			return err
		}
		return quest.RetireAction(ctx, tx, id, target)
	})
	if err != nil {
		return err
	}
	return noContent(w)
}

func (a *API) describeAction(w http.ResponseWriter, r *http.Request) error {
	id, err := pathQuest(r)
	if err != nil {
		return err
	}
	described, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) (*quest.Described, error) {
		return quest.Describe(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	return ok(w, toQuest(described))
}

func (a *API) actionParticipation(w http.ResponseWriter, r *http.Request) error {
	id, err := pathQuest(r)
	if err != nil {
		return err
	}
	participants, err := store.ReadValue(r.Context(), a.store, func(ctx context.Context, tx store.Tx) ([]domain.Participant, error) {
		return quest.Participation(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	out := actionParticipationDTO{QuestID: int64(id), Adventurers: make([]participantDTO, 0, len(participants))}
	for _, p := range participants {
		out.Adventurers = append(out.Adventurers, toParticipant(p))
	}
	return ok(w, out)
}
