// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package domain

import "strconv"

// AdventurerID identifies an adventurer account.
type AdventurerID int64

// GuildID identifies a guild.
type GuildID int64

// QuestID identifies a quest template or instance.
type QuestID int64

// SessionID identifies an auth session row.
type SessionID int64

func (id AdventurerID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id GuildID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id QuestID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id SessionID) String() string    { return strconv.FormatInt(int64(id), 10) }
