// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import (
	"context"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
)

// InsertTask appends a task to quest.
func InsertTask(ctx context.Context, tx store.Tx, t domain.QuestTask) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO quest_tasks (quest_id, order_index, name, description, adventurer_note, xp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, int64(t.QuestID), t.OrderIndex, t.Name, t.Description, t.AdventurerNote, t.XP).Scan(&id)
	if err != nil {
		return 0, domain.StorageError("insert quest task", err)
	}
	return id, nil
}

// UpdateTask rewrites the task of quest at order index t.OrderIndex.
func UpdateTask(ctx context.Context, tx store.Tx, t domain.QuestTask) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE quest_tasks SET name = $3, description = $4, adventurer_note = $5, xp = $6
		WHERE quest_id = $1 AND order_index = $2
	`, int64(t.QuestID), t.OrderIndex, t.Name, t.Description, t.AdventurerNote, t.XP)
	if err != nil {
		return 0, domain.StorageError("update quest task", err)
	}
	return tag.RowsAffected(), nil
}

// Tasks returns the tasks of quest in order.
func Tasks(ctx context.Context, tx store.Tx, quest domain.QuestID) ([]domain.QuestTask, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_index, name, description, adventurer_note, xp
		FROM quest_tasks WHERE quest_id = $1 ORDER BY order_index, id
	`, int64(quest))
	if err != nil {
		return nil, domain.StorageError("list quest tasks", err)
	}
	defer rows.Close()

	var out []domain.QuestTask
	for rows.Next() {
		t := domain.QuestTask{QuestID: quest}
		if err := rows.Scan(&t.ID, &t.OrderIndex, &t.Name, &t.Description, &t.AdventurerNote, &t.XP); err != nil {
			return nil, domain.StorageError("scan quest task", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list quest tasks", err)
	}
	return out, nil
}

// InsertDetail attaches a description to quest.
func InsertDetail(ctx context.Context, tx store.Tx, quest domain.QuestID, description string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO quest_details (quest_id, description) VALUES ($1, $2) RETURNING id
	`, int64(quest), description).Scan(&id)
	if err != nil {
		return 0, domain.StorageError("insert quest detail", err)
	}
	return id, nil
}

// Details returns the details of quest in insertion order.
func Details(ctx context.Context, tx store.Tx, quest domain.QuestID) ([]domain.QuestDetail, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, description FROM quest_details WHERE quest_id = $1 ORDER BY id
	`, int64(quest))
	if err != nil {
		return nil, domain.StorageError("list quest details", err)
	}
	defer rows.Close()

	var out []domain.QuestDetail
	for rows.Next() {
		d := domain.QuestDetail{QuestID: quest}
		if err := rows.Scan(&d.ID, &d.Description); err != nil {
			return nil, domain.StorageError("scan quest detail", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list quest details", err)
	}
	return out, nil
}
