// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package country

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/database/schema"
	"github.com/taibuivan/campusconnect/internal/platform/dberr"
	"github.com/taibuivan/campusconnect/internal/platform/postgres"
)

const msgCodeInUse = "Country code already exists"

var country = schema.ReferenceCountry

var countryColumns = fmt.Sprintf("%s, %s, %s, %s",
	country.ID, country.CountryName, country.CapitalCity, country.CountryCode)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewRepository creates a new Postgres country repository.
func NewRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCountry(row pgx.Row) (*Country, error) {
	result := &Country{}
	err := row.Scan(&result.ID, &result.CountryName, &result.CapitalCity, &result.CountryCode)
	return result, err
}

func classify(err error, action string) error {
	if dberr.IsUniqueViolation(err, schema.CountryCodeConstraint) {
		return apperr.Conflict(msgCodeInUse)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Country")
	}
	return dberr.Wrap(err, action)
}

// List returns every country ordered by name.
func (repository *PostgresRepository) List(context context.Context) ([]*Country, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC, %s ASC`,
		countryColumns, country.Table, country.CountryName, country.ID)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_country_repo_list")
	}
	defer rows.Close()

	result := []*Country{}
	for rows.Next() {
		item, err := scanCountry(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_country_repo_scan")
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_country_repo_rows")
	}

	return result, nil
}

/*
Create inserts a country.

Parameters:
  - context: context.Context
  - item: *Country (ID is filled in)

Returns:
  - error: apperr.Conflict on a duplicate code, or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, item *Country) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s`,
		country.Table, country.CountryName, country.CapitalCity, country.CountryCode,
		country.ID,
	)

	err := repository.db.QueryRow(context, query, item.CountryName, item.CapitalCity, item.CountryCode).Scan(&item.ID)
	if err != nil {
		return classify(err, "postgres_country_repo_create")
	}

	return nil
}

/*
Update applies a partial update.

Description: COALESCE keeps the stored value for every nil patch field.

Returns:
  - *Country: Updated row
  - error: apperr.NotFound, apperr.Conflict or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) (*Country, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s SET
			%[2]s = COALESCE($1, %[2]s),
			%[3]s = COALESCE($2, %[3]s),
			%[4]s = COALESCE($3, %[4]s)
		WHERE %[5]s = $4
		RETURNING %[6]s`,
		country.Table,
		country.CountryName,
		country.CapitalCity,
		country.CountryCode,
		country.ID,
		countryColumns,
	)

	updated, err := scanCountry(repository.db.QueryRow(context, query, patch.CountryName, patch.CapitalCity, patch.CountryCode, id))
	if err != nil {
		return nil, classify(err, "postgres_country_repo_update")
	}

	return updated, nil
}

// Delete removes a country by id.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, country.Table, country.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_country_repo_delete")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Country")
	}

	return nil
}
