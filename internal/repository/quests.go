// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// QuestExists reports whether a quest with id exists and is not deleted.
func QuestExists(ctx context.Context, tx store.Tx, id domain.QuestID) (bool, error) {
	return exists(ctx, tx, "quest exists",
		`SELECT EXISTS (SELECT 1 FROM quests WHERE id = $1 AND deleted_date IS NULL)`, int64(id))
}

// ActiveQuestType returns the type of a non-deleted quest.
func ActiveQuestType(ctx context.Context, tx store.Tx, id domain.QuestID) (qtype domain.QuestType, found bool, err error) {
	var raw int16
	err = tx.QueryRow(ctx, `
		SELECT quest_type FROM quests WHERE id = $1 AND deleted_date IS NULL
	`, int64(id)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, domain.StorageError("get quest type", err)
	}
	return domain.QuestType(raw), true, nil
}

// GetQuest loads a quest row regardless of lifecycle, or nil.
func GetQuest(ctx context.Context, tx store.Tx, id domain.QuestID) (*domain.Quest, error) {
	var (
		q        domain.Quest
		rawID    int64
		guildID  int64
		parentID *int64
		qtype    int16
	)
	err := tx.QueryRow(ctx, `
		SELECT id, guild_id, parent_quest_id, name, quest_type, repeatable, open_date, close_date, deleted_date
		FROM quests WHERE id = $1
	`, int64(id)).Scan(&rawID, &guildID, &parentID, &q.Name, &qtype, &q.Repeatable,
		&q.OpenDate, &q.CloseDate, &q.DeletedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("get quest", err)
	}
	q.ID = domain.QuestID(rawID)
	q.GuildID = domain.GuildID(guildID)
	q.Type = domain.QuestType(qtype)
	if parentID != nil {
		parent := domain.QuestID(*parentID)
		q.ParentQuestID = &parent
	}
	return &q, nil
}

// QuestOwner returns the guild and type of a non-deleted quest.
func QuestOwner(ctx context.Context, tx store.Tx, id domain.QuestID) (guild domain.GuildID, qtype domain.QuestType, found bool, err error) {
	var (
		rawGuild int64
		rawType  int16
	)
	err = tx.QueryRow(ctx, `
		SELECT guild_id, quest_type FROM quests WHERE id = $1 AND deleted_date IS NULL
	`, int64(id)).Scan(&rawGuild, &rawType)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, domain.StorageError("get quest owner", err)
	}
	return domain.GuildID(rawGuild), domain.QuestType(rawType), true, nil
}

// InsertTemplate publishes a new template for guild.
func InsertTemplate(ctx context.Context, tx store.Tx, guild domain.GuildID, name string, repeatable bool) (domain.QuestID, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO quests (guild_id, name, quest_type, repeatable)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, int64(guild), name, int16(domain.QuestTypeTemplate), repeatable).Scan(&id)
	if err != nil {
		return 0, domain.StorageError("insert template", err)
	}
	return domain.QuestID(id), nil
}

// InsertInstance creates an instance of source, copying its guild and name.
// The instance opens at openedAt.
func InsertInstance(ctx context.Context, tx store.Tx, source domain.QuestID, openedAt time.Time) (domain.QuestID, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO quests (guild_id, parent_quest_id, name, quest_type, open_date)
		SELECT guild_id, id, name, $2, $3 FROM quests WHERE id = $1
		RETURNING id
	`, int64(source), int16(domain.QuestTypeInstance), openedAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		store.Invariant(false, "source quest vanished inside transaction", "quest_id", int64(source))
	}
	if err != nil {
		return 0, domain.StorageError("insert instance", err)
	}
	return domain.QuestID(id), nil
}

// CopyTasks duplicates every task of src onto dst, adventurer notes included.
func CopyTasks(ctx context.Context, tx store.Tx, src, dst domain.QuestID) (int64, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO quest_tasks (quest_id, order_index, name, description, adventurer_note, xp)
		SELECT $2, order_index, name, description, adventurer_note, xp
		FROM quest_tasks WHERE quest_id = $1
		ORDER BY order_index, id
	`, int64(src), int64(dst))
	if err != nil {
		return 0, domain.StorageError("copy quest tasks", err)
	}
	return tag.RowsAffected(), nil
}

// CopyDetails duplicates every detail of src onto dst.
func CopyDetails(ctx context.Context, tx store.Tx, src, dst domain.QuestID) (int64, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO quest_details (quest_id, description)
		SELECT $2, description FROM quest_details WHERE quest_id = $1 ORDER BY id
	`, int64(src), int64(dst))
	if err != nil {
		return 0, domain.StorageError("copy quest details", err)
	}
	return tag.RowsAffected(), nil
}

// InsertPartyMember adds adventurer to the party of quest.
func InsertPartyMember(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, quest domain.QuestID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO party_members (adventurer_id, quest_id) VALUES ($1, $2)
	`, int64(adventurer), int64(quest))
	if err != nil {
		return domain.StorageError("insert party member", err)
	}
	return nil
}

// IsPartyMember reports whether adventurer is in the party of quest.
func IsPartyMember(ctx context.Context, tx store.Tx, adventurer domain.AdventurerID, quest domain.QuestID) (bool, error) {
	return exists(ctx, tx, "is party member", `
		SELECT EXISTS (SELECT 1 FROM party_members WHERE adventurer_id = $1 AND quest_id = $2)
	`, int64(adventurer), int64(quest))
}

// MarkClosed records the completion of id. An earlier completion time is
// kept.
func MarkClosed(ctx context.Context, tx store.Tx, id domain.QuestID, at time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE quests SET close_date = COALESCE(close_date, $2) WHERE id = $1
	`, int64(id), at)
	if err != nil {
		return 0, domain.StorageError("mark quest closed", err)
	}
	return tag.RowsAffected(), nil
}

// MarkDeleted soft-deletes id. Instances of a template are left alone.
func MarkDeleted(ctx context.Context, tx store.Tx, id domain.QuestID, at time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE quests SET deleted_date = COALESCE(deleted_date, $2) WHERE id = $1
	`, int64(id), at)
	if err != nil {
		return 0, domain.StorageError("mark quest deleted", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateTemplate sets the name and repeatable flag of a template.
func UpdateTemplate(ctx context.Context, tx store.Tx, id domain.QuestID, name string, repeatable bool) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE quests SET name = $2, repeatable = $3 WHERE id = $1
	`, int64(id), name, repeatable)
	if err != nil {
		return 0, domain.StorageError("update template", err)
	}
	return tag.RowsAffected(), nil
}
