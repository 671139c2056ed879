// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package country manages the country lookup table used by registration forms.

Reads are served through a Redis cache-aside layer; every mutation drops the
cached list so the next read repopulates it from Postgres.
*/
package country

import (
	"context"
)

// # Domain Entities

// Country is a single row of the lookup table.
type Country struct {
	ID          int64  `json:"id"`
	CountryName string `json:"country_name"`
	CapitalCity string `json:"capital_city"`
	CountryCode string `json:"country_code"`
}

const (
	FieldCountryName = "country_name"
	FieldCapitalCity = "capital_city"
	FieldCountryCode = "country_code"

	NameMaxLength = 100
	CodeMaxLength = 10
)

// Patch carries a partial update. Nil fields keep their stored value.
type Patch struct {
	CountryName *string
	CapitalCity *string
	CountryCode *string
}

// # Contracts

// Repository defines the persistence contract for countries.
type Repository interface {

	// List returns all countries ordered by name.
	List(context context.Context) ([]*Country, error)

	// Create inserts country; a taken code yields apperr.Conflict.
	Create(context context.Context, country *Country) error

	// Update applies patch; apperr.NotFound or apperr.Conflict on failure.
	Update(context context.Context, id int64, patch Patch) (*Country, error)

	// Delete removes the country or returns apperr.NotFound.
	Delete(context context.Context, id int64) error
}

/*
Cache holds the serialized country list.

Load reports a miss with (nil, false, nil). Errors are never fatal to callers:
the service logs them and falls back to the repository.
*/
type Cache interface {
	Load(context context.Context) ([]*Country, bool, error)
	Store(context context.Context, countries []*Country) error
	Invalidate(context context.Context) error
}
