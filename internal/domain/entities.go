// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package domain

import "time"

// DefaultSessionTTL is the lifetime recorded on every new auth session.
const DefaultSessionTTL = 30 * 24 * time.Hour

// RoleLeader is the only role name currently assigned in a guild.
const RoleLeader = "leader"

// Guild is an organization that publishes quest templates.
type Guild struct {
	ID         GuildID
	Name       string
	LeaderID   *AdventurerID
	LeaderName *string
}

// Adventurer is a user account. Credentials are never loaded into this type.
type Adventurer struct {
	ID    AdventurerID
	Name  string
	Email string
}

// Credentials are the stored password material of an adventurer.
type Credentials struct {
	AdventurerID AdventurerID
	Hash         string
	Salt         string
}

// QuestType distinguishes templates from instances.
type QuestType int16

const (
	// QuestTypeTemplate is a reusable quest published by a guild.
	QuestTypeTemplate QuestType = 0
	// QuestTypeInstance is an adventurer's personal copy of a template.
	QuestTypeInstance QuestType = 1
)

func (t QuestType) String() string {
	switch t {
	case QuestTypeTemplate:
		return "template"
	case QuestTypeInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Quest is a single row of the quests table.
type Quest struct {
	ID            QuestID
	GuildID       GuildID
	ParentQuestID *QuestID
	Name          string
	Type          QuestType
	Repeatable    bool
	OpenDate      *time.Time
	CloseDate     *time.Time
	DeletedDate   *time.Time
}

// Lifecycle derives the quest's state from its timestamps.
func (q *Quest) Lifecycle() Lifecycle {
	return LifecycleOf(q.CloseDate, q.DeletedDate)
}

// IsTemplate reports whether the quest is a template.
func (q *Quest) IsTemplate() bool { return q.Type == QuestTypeTemplate }

// QuestTask is an ordered task within a quest.
type QuestTask struct {
	ID             int64
	QuestID        QuestID
	OrderIndex     int32
	Name           string
	Description    *string
	AdventurerNote *string
	XP             int32
}

// QuestDetail is a free-form description attached to a quest.
type QuestDetail struct {
	ID          int64
	QuestID     QuestID
	Description string
}

// Role is a named role an adventurer holds within a guild.
type Role struct {
	GuildID GuildID
	Name    string
}

// AuthSession is a login session. TokenHash is the SHA-256 digest of the
// bearer token; the token itself is only known to the client.
type AuthSession struct {
	ID           SessionID
	AdventurerID AdventurerID
	TokenHash    string
	StartTime    time.Time
	TimeToLive   time.Duration
}

// ExpiresAt is the end of the session's recorded lifetime. Sessions are not
// rejected once this passes.
func (s *AuthSession) ExpiresAt() time.Time {
	return s.StartTime.Add(s.TimeToLive)
}
