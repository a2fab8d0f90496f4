// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package domain

import (
	"github.com/samber/oops"
)

// Error codes returned by the engines. They are stable and map one to one to
// the kinds a client can observe.
const (
	CodeStorage                 = "STORAGE_ERROR"
	CodeAdventurerNotFound      = "ADVENTURER_NOT_FOUND"
	CodeGuildNotFound           = "GUILD_NOT_FOUND"
	CodeQuestNotFound           = "QUEST_NOT_FOUND"
	CodeAdventurerNotFoundEmail = "ADVENTURER_NOT_FOUND_BY_EMAIL"
	CodeNotPartyMember          = "NOT_PARTY_MEMBER"
	CodeQuestNotBelongToGuild   = "QUEST_NOT_BELONG_TO_GUILD"
	CodeAccountAlreadyExists    = "ACCOUNT_ALREADY_EXISTS"
	CodeCannotComputeHash       = "CANNOT_COMPUTE_HASH"
	CodeUnauthorizedLogin       = "UNAUTHORIZED_LOGIN"
	CodeSessionNotFound         = "SESSION_NOT_FOUND"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
)

// StorageError wraps a driver failure. Details stay in the error chain for
// logging; clients only ever see a generic message.
func StorageError(operation string, err error) error {
	return oops.Code(CodeStorage).With("operation", operation).Wrap(err)
}

// AdventurerNotFound reports a missing adventurer. id may be nil when the
// lookup was not by id.
func AdventurerNotFound(id *AdventurerID) error {
	if id == nil {
		return oops.Code(CodeAdventurerNotFound).Errorf("specified adventurer not found")
	}
	return oops.Code(CodeAdventurerNotFound).With("id", int64(*id)).Errorf("no adventurer with id = %d exists", *id)
}

// GuildNotFound reports a missing guild.
func GuildNotFound(id *GuildID) error {
	if id == nil {
		return oops.Code(CodeGuildNotFound).Errorf("specified guild not found")
	}
	return oops.Code(CodeGuildNotFound).With("id", int64(*id)).Errorf("no guild with id = %d exists", *id)
}

// QuestNotFound reports a missing or deleted quest.
func QuestNotFound(id *QuestID) error {
	if id == nil {
		return oops.Code(CodeQuestNotFound).Errorf("specified quest not found")
	}
	return oops.Code(CodeQuestNotFound).With("id", int64(*id)).Errorf("no quest with id = %d exists", *id)
}

// AdventurerNotFoundByEmail reports an unknown email address.
func AdventurerNotFoundByEmail(email string) error {
	return oops.Code(CodeAdventurerNotFoundEmail).With("email", email).Errorf("no adventurer with email = %s exists", email)
}

// NotPartyMember reports an adventurer acting on a quest they do not hold.
func NotPartyMember(adventurer AdventurerID, quest QuestID) error {
	return oops.Code(CodeNotPartyMember).
		With("adventurer_id", int64(adventurer), "quest_id", int64(quest)).
		Errorf("adventurer %d is not a member of party for quest %d", adventurer, quest)
}

// QuestNotBelongToGuild reports a template addressed through the wrong guild.
func QuestNotBelongToGuild(quest QuestID, guild GuildID) error {
	return oops.Code(CodeQuestNotBelongToGuild).
		With("quest_id", int64(quest), "guild_id", int64(guild)).
		Errorf("quest %d does not belong to guild %d", quest, guild)
}

// AccountAlreadyExists reports an email that is already registered.
func AccountAlreadyExists() error {
	return oops.Code(CodeAccountAlreadyExists).Errorf("account already exists")
}

// CannotComputeHash reports a hashing or salt decoding failure. The cause is
// kept as context only, so a code it carries does not replace this one.
func CannotComputeHash(err error) error {
	return oops.Code(CodeCannotComputeHash).
		With("cause", err.Error()).
		Errorf("cannot compute password hash")
}

// UnauthorizedLogin reports a password mismatch.
func UnauthorizedLogin() error {
	return oops.Code(CodeUnauthorizedLogin).Errorf("failed login")
}

// SessionNotFound reports an unknown bearer token.
func SessionNotFound() error {
	return oops.Code(CodeSessionNotFound).Errorf("session not found")
}

// InsufficientPermissions reports an authenticated caller lacking a flag.
func InsufficientPermissions(msg string) error {
	return oops.Code(CodeInsufficientPermissions).Errorf("%s", msg)
}

// CodeOf returns the oops code carried by err, or "" when there is none.
func CodeOf(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string) //nolint:errcheck // non-string codes are treated as absent
	return code
}

// Is reports whether err carries code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// IsNotFound reports whether err is one of the not-found kinds.
func IsNotFound(err error) bool {
	switch CodeOf(err) {
	case CodeAdventurerNotFound, CodeGuildNotFound, CodeQuestNotFound, CodeAdventurerNotFoundEmail:
		return true
	default:
		return false
	}
}
