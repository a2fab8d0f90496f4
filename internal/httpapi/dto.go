// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package httpapi

import (
	"time"

	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/quest"
)

// Wire shapes. Timestamps are JavaScript millisecond integers. Task names
// travel as "description" and task descriptions as "name"; existing clients
// depend on the swap.

func jsTime(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

var permissionWireNames = map[domain.PermissionType]string{
	domain.PermissionSuperUser:           "SuperUser",
	domain.PermissionApproved:            "Approved",
	domain.PermissionGuildLeaderEligible: "GuildLeaderEligible",
	domain.PermissionRejected:            "Rejected",
}

type roleDTO struct {
	GuildID int64  `json:"guild_id"`
	Name    string `json:"name"`
}

type permissionDTO struct {
	Type string `json:"type"`
}

type userSummaryDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Roles       []roleDTO       `json:"roles"`
	Permissions []permissionDTO `json:"permissions"`
}

func toUserSummary(s domain.AdventurerSummary) userSummaryDTO {
	out := userSummaryDTO{
		ID:          int64(s.ID),
		Name:        s.Name,
		Roles:       make([]roleDTO, 0, len(s.Roles)),
		Permissions: make([]permissionDTO, 0, len(s.Permissions)),
	}
	for _, r := range s.Roles {
		out.Roles = append(out.Roles, roleDTO{GuildID: int64(r.GuildID), Name: r.Name})
	}
	for _, p := range s.Permissions {
		out.Permissions = append(out.Permissions, permissionDTO{Type: permissionWireNames[p]})
	}
	return out
}

type acceptedActionDTO struct {
	GuildID        int64   `json:"guild_id"`
	QuestID        int64   `json:"quest_id"`
	TaskName       string  `json:"description"`
	TaskDesc       *string `json:"name"`
	AdventurerNote *string `json:"adventurer_note"`
	XP             int32   `json:"xp"`
	OpenDate       *int64  `json:"open_date"`
}

type completedActionDTO struct {
	GuildID       int64   `json:"guild_id"`
	QuestID       int64   `json:"quest_id"`
	TaskName      string  `json:"description"`
	TaskDesc      *string `json:"name"`
	XP            int32   `json:"xp"`
	AcceptedDate  *int64  `json:"accepted_date"`
	CompletedDate int64   `json:"completed_date"`
}

type availableActionDTO struct {
	GuildID        int64   `json:"guild_id"`
	QuestID        int64   `json:"quest_id"`
	TaskName       string  `json:"description"`
	TaskDesc       *string `json:"name"`
	AdventurerNote *string `json:"adventurer_note"`
	XP             int32   `json:"xp"`
	Repeatable     bool    `json:"repeatable"`
}

type guildActionDTO struct {
	ID             int64   `json:"id"`
	TaskName       string  `json:"description"`
	TaskDesc       *string `json:"name"`
	AdventurerNote *string `json:"adventurer_note"`
	XP             int32   `json:"xp"`
	Repeatable     bool    `json:"repeatable"`
}

func toGuildActions(in []domain.QuestAction) []guildActionDTO {
	out := make([]guildActionDTO, 0, len(in))
	for _, a := range in {
		out = append(out, guildActionDTO{
			ID:             int64(a.ID),
			TaskName:       a.Name,
			TaskDesc:       a.Description,
			AdventurerNote: a.AdventurerNote,
			XP:             a.XP,
			Repeatable:     a.Repeatable,
		})
	}
	return out
}

type guildBundleDTO struct {
	GuildID           int64            `json:"guildId"`
	GuildTitle        string           `json:"guildTitle"`
	GuildQuestActions []guildActionDTO `json:"guildQuestActions"`
}

type guildDTO struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	LeaderID   *int64  `json:"leader_id"`
	LeaderName *string `json:"leader_name"`
}

type leaderDTO struct {
	ID int64 `json:"id"`
}

type allowedLeaderDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type participantUserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type participantDTO struct {
	User           participantUserDTO `json:"user"`
	InstanceID     int64              `json:"instance_id"`
	TaskName       string             `json:"quest_description"`
	AdventurerNote *string            `json:"adventurer_note"`
	XP             int32              `json:"xp"`
	AcceptedDate   *int64             `json:"accepted_date"`
	CompletedDate  *int64             `json:"completed_date"`
}

type actionParticipationDTO struct {
	QuestID     int64            `json:"quest_id"`
	Adventurers []participantDTO `json:"adventurers"`
}

type guildParticipationDTO struct {
	QuestActions []actionParticipationDTO `json:"quest_actions"`
}

func toParticipant(p domain.Participant) participantDTO {
	return participantDTO{
		User:           participantUserDTO{ID: int64(p.AdventurerID), Name: p.AdventurerName},
		InstanceID:     int64(p.InstanceID),
		TaskName:       p.Name,
		AdventurerNote: p.AdventurerNote,
		XP:             p.XP,
		AcceptedDate:   jsTime(p.AcceptedDate),
		CompletedDate:  jsTime(p.CompletedDate),
	}
}

type taskDTO struct {
	OrderIndex     int32   `json:"order_index"`
	TaskName       string  `json:"description"`
	TaskDesc       *string `json:"name"`
	AdventurerNote *string `json:"adventurer_note"`
	XP             int32   `json:"xp"`
}

type questDTO struct {
	ID            int64     `json:"id"`
	GuildID       int64     `json:"guild_id"`
	ParentQuestID *int64    `json:"parent_quest_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Lifecycle     string    `json:"lifecycle"`
	Repeatable    bool      `json:"repeatable"`
	OpenDate      *int64    `json:"open_date"`
	CloseDate     *int64    `json:"close_date"`
	DeletedDate   *int64    `json:"deleted_date"`
	Tasks         []taskDTO `json:"tasks"`
	Details       []string  `json:"details"`
}

func toQuest(d *quest.Described) questDTO {
	q := d.Quest
	out := questDTO{
		ID:          int64(q.ID),
		GuildID:     int64(q.GuildID),
		Name:        q.Name,
		Type:        q.Type.String(),
		Lifecycle:   q.Lifecycle().String(),
		Repeatable:  q.Repeatable,
		OpenDate:    jsTime(q.OpenDate),
		CloseDate:   jsTime(q.CloseDate),
		DeletedDate: jsTime(q.DeletedDate),
		Tasks:       make([]taskDTO, 0, len(d.Tasks)),
		Details:     make([]string, 0, len(d.Details)),
	}
	if q.ParentQuestID != nil {
		parent := int64(*q.ParentQuestID)
		out.ParentQuestID = &parent
	}
	for _, t := range d.Tasks {
		out.Tasks = append(out.Tasks, taskDTO{
			OrderIndex:     t.OrderIndex,
			TaskName:       t.Name,
			TaskDesc:       t.Description,
			AdventurerNote: t.AdventurerNote,
			XP:             t.XP,
		})
	}
	for _, detail := range d.Details {
		out.Details = append(out.Details, detail.Description)
	}
	return out
}

// Requests.

type questRefRequest struct {
	QuestID *int64 `json:"quest_id"`
}

func (q questRefRequest) id() (domain.QuestID, error) {
	if q.QuestID == nil {
		return 0, badRequest("quest_id is required")
	}
	return domain.QuestID(*q.QuestID), nil
}

type guildRequest struct {
	Name     string `json:"name"`
	LeaderID *int64 `json:"leader_id"`
}

func (g guildRequest) leader() *domain.AdventurerID {
	if g.LeaderID == nil {
		return nil
	}
	id := domain.AdventurerID(*g.LeaderID)
	return &id
}

type setLeaderRequest struct {
	ID *int64 `json:"id"`
}

type actionRequest struct {
	QuestID        *int64   `json:"quest_id"`
	TaskName       string   `json:"description"`
	TaskDesc       *string  `json:"name"`
	AdventurerNote *string  `json:"adventurer_note"`
	XP             int32    `json:"xp"`
	Repeatable     bool     `json:"repeatable"`
	Details        []string `json:"details"`
}

func (a actionRequest) action() quest.Action {
	return quest.Action{
		Name:           a.TaskName,
		Description:    a.TaskDesc,
		AdventurerNote: a.AdventurerNote,
		XP:             a.XP,
		Repeatable:     a.Repeatable,
		Details:        a.Details,
	}
}

type setPermRequest struct {
	Set *bool `json:"set"`
}

type accountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries its start time and ttl in seconds, unlike the
// millisecond timestamps elsewhere.
type loginResponse struct {
	ID         int64  `json:"id"`
	Token      string `json:"token"`
	StartTime  int64  `json:"start_time"`
	TimeToLive int64  `json:"time_to_live"`
}

func newLoginResponse(s *domain.LoginSession) loginResponse {
	return loginResponse{
		ID:         int64(s.AdventurerID),
		Token:      s.Token,
		StartTime:  s.StartTime.Unix(),
		TimeToLive: int64(s.TimeToLive / time.Second),
	}
}

type passwordRequest struct {
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}
