// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles administrative and self-service management of members.

It lists, reads, updates and deletes the accounts created by the auth package.

# Architecture

  - Entities: Profile (read model joined with the role name).
  - Domain: Updates are applied inside one transaction that first locks the
    target row, then runs the ownership guard, then writes.
  - Security: Only admins may list, read or delete accounts and change roles.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/campusconnect/pkg/pagination"
)

// # Domain Entities

// Profile is the read model of an account, including its role name.
type Profile struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Email       string    `json:"email"`
	CountryCode string    `json:"country_code"`
	RoleID      int64     `json:"role_id"`
	RoleName    string    `json:"role_name"`
}

// ListFilter narrows the account listing.
type ListFilter struct {
	pagination.Params

	// Search matches first name, last name or email, case-insensitively.
	Search string
}

// Patch is a partial update. Nil fields keep their stored value.
type Patch struct {
	FirstName    *string
	LastName     *string
	Gender       *string
	DateOfBirth  *time.Time
	Email        *string
	PasswordHash *string
	CountryCode  *string
	RoleID       *int64
}

// Guard inspects the locked current state before a mutation is applied.
// A non-nil error aborts the transaction.
type Guard func(current *Profile) error

// # Repository Contracts

// AccountRepository defines the persistence contract for account management.
type AccountRepository interface {
	/*
		List returns one page of accounts ordered by id.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []*Profile: Page of accounts
		  - int: Total number of matching accounts
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter) ([]*Profile, int, error)

	/*
		FindByID retrieves an account by its id.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Profile: Loaded account
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*Profile, error)

	/*
		Update locks the account, runs guard, and applies patch.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - patch: Patch
		  - guard: Guard (runs after the row lock, before the write)

		Returns:
		  - *Profile: State after the update
		  - error: apperr.NotFound, guard errors, CONFLICT on duplicate email
	*/
	Update(context context.Context, id int64, patch Patch, guard Guard) (*Profile, error)

	/*
		Delete removes an account. Its posts and comments cascade.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id int64) error
}
