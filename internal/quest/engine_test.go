// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package quest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/store"
	"github.com/deiadventures/guildhall/pkg/errutil"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	prev := Now
	Now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		Now = prev
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return mock
}

func expectExists(mock pgxmock.PgxConnIface, table string, arg int64, found bool) {
	mock.ExpectQuery("FROM " + table + " WHERE id").
		WithArgs(arg).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(found))
}

func expectQuestType(mock pgxmock.PgxConnIface, id int64, qtype domain.QuestType) {
	mock.ExpectQuery("SELECT quest_type FROM quests").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"quest_type"}).AddRow(int16(qtype)))
}

func expectMembership(mock pgxmock.PgxConnIface, adventurer, quest int64, member bool) {
	expectExists(mock, "adventurers", adventurer, true)
	expectExists(mock, "quests", quest, true)
	mock.ExpectQuery("FROM party_members").
		WithArgs(adventurer, quest).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(member))
}

func TestAccept_CopiesEverything(t *testing.T) {
	mock := newMock(t)
	before := testutil.ToFloat64(Transitions.WithLabelValues(transitionAccept))

	expectExists(mock, "adventurers", 1, true)
	expectQuestType(mock, 10, domain.QuestTypeTemplate)
	mock.ExpectQuery("INSERT INTO quests").
		WithArgs(int64(10), int16(domain.QuestTypeInstance), fixedNow).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(20)))
	mock.ExpectExec("INSERT INTO quest_tasks").
		WithArgs(int64(10), int64(20)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectExec("INSERT INTO quest_details").
		WithArgs(int64(10), int64(20)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO party_members").
		WithArgs(int64(1), int64(20)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := Accept(context.Background(), mock, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, domain.QuestID(20), id)
	assert.Equal(t, before+1, testutil.ToFloat64(Transitions.WithLabelValues(transitionAccept)))
}

func TestAccept_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxConnIface)
		wantCode string
	}{
		{
			name: "unknown adventurer",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "adventurers", 1, false)
			},
			wantCode: domain.CodeAdventurerNotFound,
		},
		{
			name: "unknown or deleted quest",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "adventurers", 1, true)
				mock.ExpectQuery("SELECT quest_type FROM quests").
					WithArgs(int64(10)).
					WillReturnRows(pgxmock.NewRows([]string{"quest_type"}))
			},
			wantCode: domain.CodeQuestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			_, err := Accept(context.Background(), mock, 1, 10)
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestAccept_InstanceSourceIsAllowed(t *testing.T) {
	mock := newMock(t)
	expectExists(mock, "adventurers", 1, true)
	expectQuestType(mock, 20, domain.QuestTypeInstance)
	mock.ExpectQuery("INSERT INTO quests").
		WithArgs(int64(20), int16(domain.QuestTypeInstance), fixedNow).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectExec("INSERT INTO quest_tasks").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO quest_details").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec("INSERT INTO party_members").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := Accept(context.Background(), mock, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.QuestID(21), id)
}

func TestAccept_StopsAtFirstFailure(t *testing.T) {
	mock := newMock(t)
	expectExists(mock, "adventurers", 1, true)
	expectQuestType(mock, 10, domain.QuestTypeTemplate)
	mock.ExpectQuery("INSERT INTO quests").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(20)))
	mock.ExpectExec("INSERT INTO quest_tasks").WillReturnError(errors.New("disk full"))

	_, err := Accept(context.Background(), mock, 1, 10)
	errutil.AssertErrorCode(t, err, domain.CodeStorage)
}

func TestComplete(t *testing.T) {
	mock := newMock(t)
	expectMembership(mock, 1, 20, true)
	mock.ExpectExec("UPDATE quests SET close_date").
		WithArgs(int64(20), fixedNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, Complete(context.Background(), mock, 1, 20))
}

func TestComplete_NotPartyMember(t *testing.T) {
	mock := newMock(t)
	expectMembership(mock, 1, 20, false)

	err := Complete(context.Background(), mock, 1, 20)
	errutil.AssertErrorCode(t, err, domain.CodeNotPartyMember)
	errutil.AssertErrorContext(t, err, "quest_id", int64(20))
}

func TestComplete_RowCountInvariant(t *testing.T) {
	mock := newMock(t)
	expectMembership(mock, 1, 20, true)
	mock.ExpectExec("UPDATE quests SET close_date").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	defer func() {
		r := recover()
		_, ok := r.(*store.InvariantViolation)
		assert.True(t, ok, "expected invariant violation, got %v", r)
	}()
	_ = Complete(context.Background(), mock, 1, 20)
}

func TestCancel(t *testing.T) {
	mock := newMock(t)
	expectMembership(mock, 1, 20, true)
	mock.ExpectExec("UPDATE quests SET deleted_date").
		WithArgs(int64(20), fixedNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, Cancel(context.Background(), mock, 1, 20))
}

func TestCancel_DeletedQuestIsNotFound(t *testing.T) {
	mock := newMock(t)
	expectExists(mock, "adventurers", 1, true)
	expectExists(mock, "quests", 20, false)

	err := Cancel(context.Background(), mock, 1, 20)
	errutil.AssertErrorCode(t, err, domain.CodeQuestNotFound)
}

var ownerColumns = []string{"guild_id", "quest_type"}

func TestRetireAction(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxConnIface)
		wantCode string
	}{
		{
			name: "retires owned template",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "guilds", 2, true)
				mock.ExpectQuery("SELECT guild_id, quest_type FROM quests").
					WithArgs(int64(10)).
					WillReturnRows(pgxmock.NewRows(ownerColumns).AddRow(int64(2), int16(0)))
				mock.ExpectExec("UPDATE quests SET deleted_date").
					WithArgs(int64(10), fixedNow).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "template of another guild",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "guilds", 2, true)
				mock.ExpectQuery("SELECT guild_id, quest_type FROM quests").
					WithArgs(int64(10)).
					WillReturnRows(pgxmock.NewRows(ownerColumns).AddRow(int64(3), int16(0)))
			},
			wantCode: domain.CodeQuestNotBelongToGuild,
		},
		{
			name: "missing template",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "guilds", 2, true)
				mock.ExpectQuery("SELECT guild_id, quest_type FROM quests").
					WithArgs(int64(10)).
					WillReturnRows(pgxmock.NewRows(ownerColumns))
			},
			wantCode: domain.CodeQuestNotFound,
		},
		{
			name: "adventurer instance",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "guilds", 2, true)
				mock.ExpectQuery("SELECT guild_id, quest_type FROM quests").
					WithArgs(int64(10)).
					WillReturnRows(pgxmock.NewRows(ownerColumns).AddRow(int64(2), int16(1)))
			},
			wantCode: domain.CodeQuestNotFound,
		},
		{
			name: "missing guild",
			setup: func(mock pgxmock.PgxConnIface) {
				expectExists(mock, "guilds", 2, false)
			},
			wantCode: domain.CodeGuildNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			err := RetireAction(context.Background(), mock, 2, 10)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestCreateAction(t *testing.T) {
	mock := newMock(t)
	desc := "Plant a native tree in the community garden"
	expectExists(mock, "guilds", 2, true)
	mock.ExpectQuery("INSERT INTO quests").
		WithArgs(int64(2), "Plant a tree", int16(domain.QuestTypeTemplate), true).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery("INSERT INTO quest_tasks").
		WithArgs(int64(10), int32(0), "Plant a tree", &desc, (*string)(nil), int32(15)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery("INSERT INTO quest_details").
		WithArgs(int64(10), "Bring gloves").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(200)))

	id, err := CreateAction(context.Background(), mock, 2, Action{
		Name:        "Plant a tree",
		Description: &desc,
		XP:          15,
		Repeatable:  true,
		Details:     []string{"Bring gloves"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.QuestID(10), id)
}

func TestCreateAction_Invalid(t *testing.T) {
	mock := newMock(t)

	_, err := CreateAction(context.Background(), mock, 2, Action{Name: "  "})
	errutil.AssertErrorCode(t, err, CodeInvalidAction)

	_, err = CreateAction(context.Background(), mock, 2, Action{Name: "x", XP: -1})
	errutil.AssertErrorCode(t, err, CodeInvalidAction)
}

func TestEditAction_AddsMissingTask(t *testing.T) {
	mock := newMock(t)
	expectExists(mock, "guilds", 2, true)
	mock.ExpectQuery("SELECT guild_id, quest_type FROM quests").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows(ownerColumns).AddRow(int64(2), int16(0)))
	mock.ExpectExec("UPDATE quests SET name").
		WithArgs(int64(10), "Litter pick", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE quest_tasks").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("INSERT INTO quest_tasks").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(101)))

	err := EditAction(context.Background(), mock, 2, 10, Action{Name: "Litter pick", XP: 5})
	require.NoError(t, err)
}
