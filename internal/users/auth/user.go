// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration and session management.

It defines the account entity stored in the person table and the use cases that
create it (registration) and authenticate it (login, refresh, logout, me).

# Architecture

  - Service: registration and login rules, login throttling, token issuance.
  - Repository: Postgres access to person, roles and invitecode.
  - Throttle: Redis counters of failed logins per email.
  - Handler: JSON transport and session cookies.

The same repository resolves the caller for the authentication gate, so every
protected request sees the account's current role.
*/
package auth

import (
	"time"

	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the campus network.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CountryCode  string    `json:"country_code"`
	RoleID       int64     `json:"role_id"`
}

// Identity converts the account into the request-scoped caller representation.
func (user *User) Identity(roleName string) *sec.Identity {
	return &sec.Identity{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RoleID:    user.RoleID,
		RoleName:  roleName,
	}
}

// Session represents a successful authentication: the signed tokens and the caller.
type Session struct {
	Tokens *sec.TokenPair
	User   *sec.Identity
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldGender      = "gender"
	FieldDateOfBirth = "date_of_birth"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldCountryCode = "countryCode"
	FieldRoleID      = "roleId"
	FieldInviteCode  = "inviteCode"
)
