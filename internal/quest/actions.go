// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package quest

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/repository"
	"github.com/deiadventures/guildhall/internal/store"
)

// CodeInvalidAction is returned for malformed quest actions.
const CodeInvalidAction = "INVALID_ACTION"

// Action is the editable content of a published template.
type Action struct {
	Name           string
	Description    *string
	AdventurerNote *string
	XP             int32
	Repeatable     bool
	// Details are attached on creation only.
	Details []string
}

// Validate checks the fields a template cannot be stored without.
func (a *Action) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return oops.Code(CodeInvalidAction).Errorf("quest action name is required")
	}
	if a.XP < 0 {
		return oops.Code(CodeInvalidAction).With("xp", a.XP).Errorf("xp must not be negative")
	}
	return nil
}

func (a *Action) task(quest domain.QuestID) domain.QuestTask {
	return domain.QuestTask{
		QuestID:        quest,
		OrderIndex:     0,
		Name:           a.Name,
		Description:    a.Description,
		AdventurerNote: a.AdventurerNote,
		XP:             a.XP,
	}
}

// CreateAction publishes a new template with a single task.
func CreateAction(ctx context.Context, tx store.Tx, guild domain.GuildID, a Action) (domain.QuestID, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := requireGuild(ctx, tx, guild); err != nil {
		return 0, err
	}

	id, err := repository.InsertTemplate(ctx, tx, guild, a.Name, a.Repeatable)
	if err != nil {
		return 0, err
	}
	if _, err := repository.InsertTask(ctx, tx, a.task(id)); err != nil {
		return 0, err
	}
	for _, d := range a.Details {
		if _, err := repository.InsertDetail(ctx, tx, id, d); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// EditAction rewrites the name, task and repeatable flag of a template of
// guild. Instances already accepted keep their copies.
func EditAction(ctx context.Context, tx store.Tx, guild domain.GuildID, id domain.QuestID, a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := requireOwnedQuest(ctx, tx, guild, id); err != nil {
		return err
	}

	n, err := repository.UpdateTemplate(ctx, tx, id, a.Name, a.Repeatable)
	if err != nil {
		return err
	}
	store.ExactlyOne(n, "update template")

	n, err = repository.UpdateTask(ctx, tx, a.task(id))
	if err != nil {
		return err
	}
	store.AtMostOne(n, "update template task")
	if n == 0 {
		if _, err := repository.InsertTask(ctx, tx, a.task(id)); err != nil {
			return err
		}
	}
	return nil
}

// RetireAction soft-deletes a template of guild. Existing instances are not
// affected.
func RetireAction(ctx context.Context, tx store.Tx, guild domain.GuildID, id domain.QuestID) error {
	if err := requireOwnedQuest(ctx, tx, guild, id); err != nil {
		return err
	}

	n, err := repository.MarkDeleted(ctx, tx, id, Now())
	if err != nil {
		return err
	}
	store.ExactlyOne(n, "retire template")

	recordTransition(transitionRetire)
	return nil
}

func requireOwnedQuest(ctx context.Context, tx store.Tx, guild domain.GuildID, id domain.QuestID) error {
	if err := requireGuild(ctx, tx, guild); err != nil {
		return err
	}

	owner, qtype, found, err := repository.QuestOwner(ctx, tx, id)
	if err != nil {
		return err
	}
	// Instances belong to adventurers; only templates are guild actions.
	if !found || qtype != domain.QuestTypeTemplate {
		return domain.QuestNotFound(&id)
	}
	if owner != guild {
		return domain.QuestNotBelongToGuild(id, guild)
	}
	return nil
}

// Described is a quest with its tasks and details.
type Described struct {
	Quest   domain.Quest
	Tasks   []domain.QuestTask
	Details []domain.QuestDetail
}

// Describe loads a quest in any lifecycle state with its tasks and details.
func Describe(ctx context.Context, tx store.Tx, id domain.QuestID) (*Described, error) {
	q, err := repository.GetQuest(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.QuestNotFound(&id)
	}

	tasks, err := repository.Tasks(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	details, err := repository.Details(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return &Described{Quest: *q, Tasks: tasks, Details: details}, nil
}
