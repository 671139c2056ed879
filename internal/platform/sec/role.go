// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Well-known role identifiers seeded by the initial migration.
const (
	RoleIDAdmin   int64 = 1
	RoleIDUser    int64 = 2
	RoleIDTeacher int64 = 3
)

// DefaultRoleID is assigned to new accounts that present no invite code.
const DefaultRoleID = RoleIDUser

// RoleKind is the closed set of authorization classes a role id maps to.
//
// Guards compare kinds, never free-form role names.
type RoleKind int

const (
	// Any role id without a well-known meaning
	RoleCustom RoleKind = iota

	// Unrestricted system access
	RoleAdmin

	// Default role for standard registered users
	RoleUser

	// Staff members invited through an invite code
	RoleTeacher
)

var roleKinds = map[int64]RoleKind{
	RoleIDAdmin:   RoleAdmin,
	RoleIDUser:    RoleUser,
	RoleIDTeacher: RoleTeacher,
}

// KindOf maps a role id to its [RoleKind].
func KindOf(roleID int64) RoleKind {
	if kind, ok := roleKinds[roleID]; ok {
		return kind
	}
	return RoleCustom
}

// String returns the canonical lowercase name of the kind.
func (k RoleKind) String() string {
	switch k {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleTeacher:
		return "teacher"
	default:
		return "custom"
	}
}

// In reports whether k is one of the given kinds.
func (k RoleKind) In(kinds ...RoleKind) bool {
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
