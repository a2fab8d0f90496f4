// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package domain

import "github.com/samber/oops"

// PermissionType is a flag an adventurer may hold. The numeric values are
// stored in the database and must not change.
type PermissionType int16

const (
	PermissionSuperUser           PermissionType = 0
	PermissionApproved            PermissionType = 1
	PermissionGuildLeaderEligible PermissionType = 2
	PermissionRejected            PermissionType = 3
)

// PermissionTypes lists every permission flag in storage order.
var PermissionTypes = []PermissionType{
	PermissionSuperUser,
	PermissionApproved,
	PermissionGuildLeaderEligible,
	PermissionRejected,
}

func (p PermissionType) String() string {
	switch p {
	case PermissionSuperUser:
		return "superuser"
	case PermissionApproved:
		return "approved"
	case PermissionGuildLeaderEligible:
		return "guild_leader_eligible"
	case PermissionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Opposite returns the flag that is cleared when p is set. Only Approved and
// Rejected exclude each other.
func (p PermissionType) Opposite() (PermissionType, bool) {
	switch p {
	case PermissionApproved:
		return PermissionRejected, true
	case PermissionRejected:
		return PermissionApproved, true
	default:
		return 0, false
	}
}

// ParsePermissionType accepts the names produced by String.
func ParsePermissionType(s string) (PermissionType, error) {
	for _, p := range PermissionTypes {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, oops.Code("INVALID_PERMISSION").With("permission", s).Errorf("unknown permission %q", s)
}
