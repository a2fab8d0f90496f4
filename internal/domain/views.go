// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package domain

import "time"

// QuestAction is a published template flattened with its first task.
type QuestAction struct {
	ID             QuestID
	GuildID        GuildID
	Name           string
	Description    *string
	AdventurerNote *string
	XP             int32
	Repeatable     bool
}

// GuildActions bundles a guild with its active templates.
type GuildActions struct {
	GuildID   GuildID
	GuildName string
	Actions   []QuestAction
}

// AcceptedAction is an open instance held by an adventurer.
type AcceptedAction struct {
	QuestID        QuestID
	GuildID        GuildID
	Name           string
	Description    *string
	AdventurerNote *string
	XP             int32
	AcceptedDate   *time.Time
}

// CompletedAction is a closed instance held by an adventurer.
type CompletedAction struct {
	QuestID       QuestID
	GuildID       GuildID
	Name          string
	Description   *string
	XP            int32
	AcceptedDate  *time.Time
	CompletedDate time.Time
}

// Participant is one adventurer's non-cancelled instance of a template.
type Participant struct {
	AdventurerID   AdventurerID
	AdventurerName string
	TemplateID     QuestID
	InstanceID     QuestID
	Name           string
	AdventurerNote *string
	XP             int32
	AcceptedDate   *time.Time
	CompletedDate  *time.Time
}

// AdventurerSummary is an adventurer with the roles and permission flags they
// hold.
type AdventurerSummary struct {
	Adventurer
	Roles       []Role
	Permissions []PermissionType
}

// HasPermission reports whether the summary carries flag p.
func (s *AdventurerSummary) HasPermission(p PermissionType) bool {
	for _, have := range s.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// LoginSession is returned to a client after a successful login. Token is the
// plaintext bearer credential.
type LoginSession struct {
	SessionID    SessionID
	AdventurerID AdventurerID
	Token        string
	StartTime    time.Time
	TimeToLive   time.Duration
}
