// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package domain holds the entities shared by the guild, quest, permission and
// auth engines, together with the coded error kinds they return.
//
// Quests come in two flavours. A template (a "quest action") is published by a
// guild and never changes lifecycle state apart from being retired. An instance
// is the copy an adventurer receives when accepting a template; instances move
// from Active to Closed (completed) or Deleted (cancelled).
package domain
