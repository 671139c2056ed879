// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "errors"

// ErrIdentityNotFound is returned when a token names an identity that no longer exists.
var ErrIdentityNotFound = errors.New("sec: identity not found")

// Identity is the authenticated caller of a request.
//
// It is resolved from the store on every request and never reused across
// requests, so role changes and deletions take effect immediately.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	RoleID    int64  `json:"roleId"`
	RoleName  string `json:"roleName"`
}

// Kind returns the authorization class of the identity's role.
func (identity *Identity) Kind() RoleKind {
	return KindOf(identity.RoleID)
}

// IsAdmin reports whether the identity holds the reserved admin role.
func (identity *Identity) IsAdmin() bool {
	return identity != nil && identity.RoleID == RoleIDAdmin
}

// CanModify reports whether identity may mutate a resource owned by ownerID.
//
// Owners may always modify their own resources; admins may modify anything.
func CanModify(identity *Identity, ownerID int64) bool {
	if identity == nil {
		return false
	}
	return identity.ID == ownerID || identity.IsAdmin()
}
