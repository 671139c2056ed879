// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/database/schema"
	"github.com/taibuivan/campusconnect/internal/platform/dberr"
	"github.com/taibuivan/campusconnect/internal/platform/postgres"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

var (
	person = schema.IdentityPerson
	role   = schema.IdentityRole
	invite = schema.IdentityInviteCode
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
FindByEmail retrieves an account by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		person.ID, person.FirstName, person.LastName, person.Gender, person.DateOfBirth,
		person.Email, person.Password, person.CountryCode, person.RoleID,
		person.Table, person.Email,
	)

	user := &User{}
	err := repository.db.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Gender,
		&user.DateOfBirth,
		&user.Email,
		&user.PasswordHash,
		&user.CountryCode,
		&user.RoleID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
ResolveIdentity loads the caller and its role name by primary key.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *sec.Identity: Current caller state
  - error: sec.ErrIdentityNotFound or database errors
*/
func (repository *PostgresUserRepository) ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, COALESCE(r.%s, '')
		FROM %s p
		LEFT JOIN %s r ON r.%s = p.%s
		WHERE p.%s = $1`,
		person.ID, person.FirstName, person.LastName, person.Email, person.RoleID, role.RoleName,
		person.Table,
		role.Table, role.ID, person.RoleID,
		person.ID,
	)

	identity := &sec.Identity{}
	err := repository.db.QueryRow(context, query, userID).Scan(
		&identity.ID,
		&identity.FirstName,
		&identity.LastName,
		&identity.Email,
		&identity.RoleID,
		&identity.RoleName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, sec.ErrIdentityNotFound)
		}
		return nil, fmt.Errorf("postgres_user_repo_resolve_identity_failed: %w", err)
	}

	return identity, nil
}

/*
WithinRegistration runs fn inside a single transaction.

Description: The invite lookup, the email check and the insert all observe the
same snapshot; the UNIQUE(email) constraint settles any remaining race.

Parameters:
  - context: context.Context
  - fn: func(RegistrationTx) error

Returns:
  - error: fn's error or transaction failures
*/
func (repository *PostgresUserRepository) WithinRegistration(context context.Context, fn func(tx RegistrationTx) error) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		return fn(&postgresRegistrationTx{tx: tx})
	})
}

// # Registration Transaction

type postgresRegistrationTx struct {
	tx pgx.Tx
}

// InviteRole resolves an invite code to its role id.
func (registration *postgresRegistrationTx) InviteRole(context context.Context, code string) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, invite.RoleID, invite.Table, invite.Code)

	var roleID int64
	if err := registration.tx.QueryRow(context, query, code).Scan(&roleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Invite code")
		}
		return 0, fmt.Errorf("postgres_user_repo_invite_role_failed: %w", err)
	}

	return roleID, nil
}

// RoleExists reports whether roleID names a seeded or custom role.
func (registration *postgresRegistrationTx) RoleExists(context context.Context, roleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, role.Table, role.ID)

	var exists bool
	if err := registration.tx.QueryRow(context, query, roleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_role_exists_failed: %w", err)
	}

	return exists, nil
}

// EmailTaken reports whether email is already registered.
func (registration *postgresRegistrationTx) EmailTaken(context context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, person.Table, person.Email)

	var taken bool
	if err := registration.tx.QueryRow(context, query, email).Scan(&taken); err != nil {
		return false, fmt.Errorf("postgres_user_repo_email_taken_failed: %w", err)
	}

	return taken, nil
}

// Insert persists a new account row and sets user.ID.
func (registration *postgresRegistrationTx) Insert(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`,
		person.Table,
		person.FirstName, person.LastName, person.Gender, person.DateOfBirth,
		person.Email, person.Password, person.CountryCode, person.RoleID,
		person.ID,
	)

	err := registration.tx.QueryRow(context, query,
		user.FirstName,
		user.LastName,
		user.Gender,
		user.DateOfBirth,
		user.Email,
		user.PasswordHash,
		user.CountryCode,
		user.RoleID,
	).Scan(&user.ID)

	if err != nil {
		if dberr.IsUniqueViolation(err, schema.PersonEmailConstraint) {
			return apperr.Conflict(msgEmailTaken)
		}
		if dberr.IsForeignKeyViolation(err) {
			return apperr.ValidationError(msgUnknownRole)
		}
		return fmt.Errorf("postgres_user_repo_insert_failed: %w", err)
	}

	return nil
}
