// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// firstTask joins the lowest-ordered task of quest alias q as t.
const firstTask = `
	LEFT JOIN LATERAL (
		SELECT name, description, adventurer_note, xp FROM quest_tasks
		WHERE quest_id = q.id ORDER BY order_index, id LIMIT 1
	) t ON true`

const actionSelect = `
	SELECT q.id, q.guild_id, COALESCE(t.name, q.name), t.description, t.adventurer_note,
		COALESCE(t.xp, 0), q.repeatable
	FROM quests q` + firstTask

// GuildActions returns the active templates of guild.
func GuildActions(ctx context.Context, tx store.Tx, guild domain.GuildID) ([]domain.QuestAction, error) {
	rows, err := tx.Query(ctx, actionSelect+`
		WHERE q.quest_type = 0 AND q.deleted_date IS NULL AND q.guild_id = $1
		ORDER BY q.id
	`, int64(guild))
	if err != nil {
		return nil, domain.StorageError("list guild actions", err)
	}
	return scanActions(rows)
}

// ActiveActions returns the active templates of every guild.
func ActiveActions(ctx context.Context, tx store.Tx) ([]domain.QuestAction, error) {
	rows, err := tx.Query(ctx, actionSelect+`
		WHERE q.quest_type = 0 AND q.deleted_date IS NULL
		ORDER BY q.guild_id, q.id
	`)
	if err != nil {
		return nil, domain.StorageError("list active actions", err)
	}
	return scanActions(rows)
}

// AvailableActions returns the templates adventurer may accept: active
// templates that are repeatable or of which they hold no non-deleted instance.
func AvailableActions(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID) ([]domain.QuestAction, error) {
	rows, err := tx.Query(ctx, actionSelect+`
		WHERE q.quest_type = 0 AND q.deleted_date IS NULL
		AND (q.repeatable OR NOT EXISTS (
			SELECT 1 FROM quests i
			JOIN party_members pm ON pm.quest_id = i.id
			WHERE i.parent_quest_id = q.id AND pm.adventurer_id = $1 AND i.deleted_date IS NULL
		))
		ORDER BY q.id
	`, int64(adventurer))
	if err != nil {
		return nil, domain.StorageError("list available actions", err)
	}
	return scanActions(rows)
}

func scanActions(rows pgx.Rows) ([]domain.QuestAction, error) {
	defer rows.Close()

	var out []domain.QuestAction
	for rows.Next() {
		var (
			a           domain.QuestAction
			id, guildID int64
		)
		if err := rows.Scan(&id, &guildID, &a.Name, &a.Description, &a.AdventurerNote, &a.XP, &a.Repeatable); err != nil {
			return nil, domain.StorageError("scan quest action", err)
		}
		a.ID = domain.QuestID(id)
		a.GuildID = domain.GuildID(guildID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list quest actions", err)
	}
	return out, nil
}

// AcceptedActions returns the open instances held by adventurer.
func AcceptedActions(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID) ([]domain.AcceptedAction, error) {
	rows, err := tx.Query(ctx, `
		SELECT q.id, q.guild_id, COALESCE(t.name, q.name), t.description, t.adventurer_note,
			COALESCE(t.xp, 0), q.open_date
		FROM quests q
		JOIN party_members pm ON pm.quest_id = q.id`+firstTask+`
		WHERE pm.adventurer_id = $1 AND q.quest_type = 1
		AND q.close_date IS NULL AND q.deleted_date IS NULL
		ORDER BY q.id
	`, int64(adventurer))
	if err != nil {
		return nil, domain.StorageError("list accepted actions", err)
	}
	defer rows.Close()

	var out []domain.AcceptedAction
	for rows.Next() {
		var (
			a           domain.AcceptedAction
			id, guildID int64
		)
		if err := rows.Scan(&id, &guildID, &a.Name, &a.Description, &a.AdventurerNote, &a.XP, &a.AcceptedDate); err != nil {
			return nil, domain.StorageError("scan accepted action", err)
		}
		a.QuestID = domain.QuestID(id)
		a.GuildID = domain.GuildID(guildID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list accepted actions", err)
	}
	return out, nil
}

// CompletedActions returns the closed, non-deleted instances held by
// adventurer.
func CompletedActions(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID) ([]domain.CompletedAction, error) {
	rows, err := tx.Query(ctx, `
		SELECT q.id, q.guild_id, COALESCE(t.name, q.name), t.description,
			COALESCE(t.xp, 0), q.open_date, q.close_date
		FROM quests q
		JOIN party_members pm ON pm.quest_id = q.id`+firstTask+`
		WHERE pm.adventurer_id = $1 AND q.quest_type = 1
		AND q.close_date IS NOT NULL AND q.deleted_date IS NULL
		ORDER BY q.close_date, q.id
	`, int64(adventurer))
	if err != nil {
		return nil, domain.StorageError("list completed actions", err)
	}
	defer rows.Close()

	var out []domain.CompletedAction
	for rows.Next() {
		var (
			a           domain.CompletedAction
			id, guildID int64
		)
		if err := rows.Scan(&id, &guildID, &a.Name, &a.Description, &a.XP, &a.AcceptedDate, &a.CompletedDate); err != nil {
			return nil, domain.StorageError("scan completed action", err)
		}
		a.QuestID = domain.QuestID(id)
		a.GuildID = domain.GuildID(guildID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list completed actions", err)
	}
	return out, nil
}

const participantSelect = `
	SELECT a.id, a.name, q.parent_quest_id, q.id, COALESCE(t.name, q.name), t.adventurer_note,
		COALESCE(t.xp, 0), q.open_date, q.close_date
	FROM quests q
	JOIN party_members pm ON pm.quest_id = q.id
	JOIN adventurers a ON a.id = pm.adventurer_id` + firstTask + `
	WHERE q.quest_type = 1 AND q.deleted_date IS NULL`

// TemplateParticipants returns everyone holding a non-deleted instance of
// template.
func TemplateParticipants(ctx context.Context, tx store.Tx, template domain.QuestID) ([]domain.Participant, error) {
	rows, err := tx.Query(ctx, participantSelect+` AND q.parent_quest_id = $1 ORDER BY q.id`, int64(template))
	if err != nil {
		return nil, domain.StorageError("list template participants", err)
	}
	return scanParticipants(rows)
}

// GuildParticipants returns everyone holding a non-deleted instance of any
// template of guild.
func GuildParticipants(ctx context.Context, tx store.Tx, guild domain.GuildID) ([]domain.Participant, error) {
	rows, err := tx.Query(ctx, participantSelect+` AND q.guild_id = $1 ORDER BY q.id`, int64(guild))
	if err != nil {
		return nil, domain.StorageError("list guild participants", err)
	}
	return scanParticipants(rows)
}

func scanParticipants(rows pgx.Rows) ([]domain.Participant, error) {
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var (
			p                    domain.Participant
			adventurer, instance int64
			template             *int64
			accepted, completed  *time.Time
		)
		if err := rows.Scan(&adventurer, &p.AdventurerName, &template, &instance, &p.Name,
			&p.AdventurerNote, &p.XP, &accepted, &completed); err != nil {
			return nil, domain.StorageError("scan participant", err)
		}
		p.AdventurerID = domain.AdventurerID(adventurer)
		p.InstanceID = domain.QuestID(instance)
		if template != nil {
			p.TemplateID = domain.QuestID(*template)
		}
		p.AcceptedDate = accepted
		p.CompletedDate = completed
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list participants", err)
	}
	return out, nil
}
