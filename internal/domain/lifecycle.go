// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package domain

import "time"

// Lifecycle is the derived state of a quest.
type Lifecycle int

const (
	// LifecycleActive quests have neither a close nor a deleted date.
	LifecycleActive Lifecycle = iota
	// LifecycleClosed quests were completed.
	LifecycleClosed
	// LifecycleDeleted quests were cancelled or retired.
	LifecycleDeleted
)

// LifecycleOf maps the nullable timestamps to a state. Deletion wins over
// completion, matching how listings hide cancelled quests.
func LifecycleOf(closeDate, deletedDate *time.Time) Lifecycle {
	switch {
	case deletedDate != nil:
		return LifecycleDeleted
	case closeDate != nil:
		return LifecycleClosed
	default:
		return LifecycleActive
	}
}

func (l Lifecycle) String() string {
	switch l {
	case LifecycleActive:
		return "active"
	case LifecycleClosed:
		return "closed"
	case LifecycleDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
