// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string (exact match, case-sensitive as stored)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		ResolveIdentity loads the caller with its role name.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - *sec.Identity: Current state of the caller
		  - error: sec.ErrIdentityNotFound or database retrieval failures
	*/
	ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error)

	/*
		WithinRegistration runs fn inside one database transaction.

		The transaction commits only when fn returns nil.

		Parameters:
		  - context: context.Context
		  - fn: func(RegistrationTx) error

		Returns:
		  - error: fn's error or transaction failures
	*/
	WithinRegistration(context context.Context, fn func(tx RegistrationTx) error) error
}

// RegistrationTx is the set of statements registration runs inside its transaction.
type RegistrationTx interface {

	// InviteRole returns the role mapped to code, or apperr.NotFound.
	InviteRole(context context.Context, code string) (int64, error)

	// RoleExists reports whether a role with the given id exists.
	RoleExists(context context.Context, roleID int64) (bool, error)

	// EmailTaken reports whether an account already uses email.
	EmailTaken(context context.Context, email string) (bool, error)

	// Insert persists user and fills in its generated id.
	// A lost uniqueness race surfaces as an apperr CONFLICT.
	Insert(context context.Context, user *User) error
}

// # Volatile Data Access

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {

	// Blocked reports whether email has exhausted its failure budget.
	Blocked(context context.Context, email string) (bool, error)

	// RecordFailure counts one failed attempt for email.
	RecordFailure(context context.Context, email string) error

	// Reset clears the failure count after a successful login.
	Reset(context context.Context, email string) error
}
