// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/database/schema"
	"github.com/taibuivan/campusconnect/internal/platform/dberr"
	"github.com/taibuivan/campusconnect/internal/platform/postgres"
)

var (
	person = schema.IdentityPerson
	role   = schema.IdentityRole
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	db postgres.DBTX
}

// NewAccountRepository creates a new Postgres implementation for account management.
func NewAccountRepository(db postgres.DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// profileColumns selects a Profile from "person p LEFT JOIN roles r".
var profileColumns = fmt.Sprintf(
	"p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, COALESCE(r.%s, '')",
	person.ID, person.FirstName, person.LastName, person.Gender, person.DateOfBirth,
	person.Email, person.CountryCode, person.RoleID, role.RoleName,
)

var profileFrom = fmt.Sprintf("%s p LEFT JOIN %s r ON r.%s = p.%s",
	person.Table, role.Table, role.ID, person.RoleID)

func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Gender,
		&profile.DateOfBirth,
		&profile.Email,
		&profile.CountryCode,
		&profile.RoleID,
		&profile.RoleName,
	)
	return profile, err
}

/*
List retrieves a page of accounts with an optional search term.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*Profile: Page of accounts
  - int: Total number of matching rows
  - error: Database errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]*Profile, int, error) {
	where := ""
	args := []any{}

	if term := strings.TrimSpace(filter.Search); term != "" {
		where = fmt.Sprintf(`WHERE LOWER(p.%s) LIKE $1 ESCAPE '\' OR LOWER(p.%s) LIKE $1 ESCAPE '\' OR LOWER(p.%s) LIKE $1 ESCAPE '\'`,
			person.FirstName, person.LastName, person.Email)
		args = append(args, containsPattern(term))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, profileFrom, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY p.%s ASC
		LIMIT $%d OFFSET $%d`,
		profileColumns, profileFrom, where, person.ID, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	profiles := make([]*Profile, 0, filter.Limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return profiles, total, nil
}

/*
FindByID retrieves an account and its role name.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Profile: Hydrated account
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*Profile, error) {
	return findProfile(context, repository.db, id, false)
}

func findProfile(context context.Context, db postgres.DBTX, id int64, lock bool) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE p.%s = $1`, profileColumns, profileFrom, person.ID)
	if lock {
		query += " FOR UPDATE OF p"
	}

	profile, err := scanProfile(db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return profile, nil
}

/*
Update applies a partial update inside one transaction.

Description: The row is locked with SELECT ... FOR UPDATE, the guard runs
against the locked state, the email is checked against other accounts and the
UPDATE uses COALESCE so nil fields keep their stored value.

Parameters:
  - context: context.Context
  - id: int64
  - patch: Patch
  - guard: Guard

Returns:
  - *Profile: Updated account
  - error: apperr.NotFound, guard errors, CONFLICT or database errors
*/
func (repository *PostgresAccountRepository) Update(context context.Context, id int64, patch Patch, guard Guard) (*Profile, error) {
	var updated *Profile

	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {

		// 1. Lock the current state
		current, err := findProfile(context, tx, id, true)
		if err != nil {
			return err
		}

		// 2. Authorization against the locked owner
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}

		// 3. Email uniqueness among other accounts
		if patch.Email != nil && *patch.Email != current.Email {
			var taken bool
			check := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
				person.Table, person.Email, person.ID)
			if err := tx.QueryRow(context, check, *patch.Email, id).Scan(&taken); err != nil {
				return fmt.Errorf("postgres_account_repo_email_check_failed: %w", err)
			}
			if taken {
				return apperr.Conflict(msgEmailInUse)
			}
		}

		// 4. Write
		update := fmt.Sprintf(`
			UPDATE %[1]s SET
				%[2]s = COALESCE($1, %[2]s),
				%[3]s = COALESCE($2, %[3]s),
				%[4]s = COALESCE($3, %[4]s),
				%[5]s = COALESCE($4, %[5]s),
				%[6]s = COALESCE($5, %[6]s),
				%[7]s = COALESCE($6, %[7]s),
				%[8]s = COALESCE($7, %[8]s),
				%[9]s = COALESCE($8, %[9]s)
			WHERE %[10]s = $9`,
			person.Table,
			person.FirstName, person.LastName, person.Gender, person.DateOfBirth,
			person.Email, person.Password, person.CountryCode, person.RoleID,
			person.ID,
		)

		_, err = tx.Exec(context, update,
			patch.FirstName,
			patch.LastName,
			patch.Gender,
			patch.DateOfBirth,
			patch.Email,
			patch.PasswordHash,
			patch.CountryCode,
			patch.RoleID,
			id,
		)
		if err != nil {
			if dberr.IsUniqueViolation(err, schema.PersonEmailConstraint) {
				return apperr.Conflict(msgEmailInUse)
			}
			if dberr.IsForeignKeyViolation(err) {
				return apperr.ValidationError(msgUnknownRole)
			}
			return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
		}

		// 5. Read back with the (possibly new) role name
		updated, err = findProfile(context, tx, id, false)
		return err
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

/*
Delete removes an account by id.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, person.Table, person.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_delete")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// likeEscaper escapes LIKE wildcards with the backslash declared by ESCAPE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches term literally anywhere in a lower-cased column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
