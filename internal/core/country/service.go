// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package country

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/validate"
	"github.com/taibuivan/campusconnect/pkg/pointer"
)

// # Service Layer

// Service orchestrates the country use cases over a repository and a list cache.
type Service struct {
	repository Repository
	cache      Cache
}

// NewService constructs a country [Service].
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repository: repo, cache: cache}
}

// CreateInput holds a new country. Every field is required.
type CreateInput struct {
	CountryName string
	CapitalCity string
	CountryCode string
}

// UpdateInput holds a partial update. Present fields must be non-empty.
type UpdateInput struct {
	CountryName *string
	CapitalCity *string
	CountryCode *string
}

// # Use Cases

/*
List returns all countries.

Description: Served from the cache when present. A cache failure is logged and
the list is read from Postgres instead.

Returns:
  - []*Country: Ordered by name
  - error: Repository errors only
*/
func (service *Service) List(context context.Context) ([]*Country, error) {
	logger := ctxutil.GetLogger(context)

	cached, ok, err := service.cache.Load(context)
	if err != nil {
		logger.WarnContext(context, "country_cache_load_failed", slog.Any("error", err))
	}
	if ok {
		return cached, nil
	}

	countries, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("country_service_list_failed: %w", err)
	}

	if err := service.cache.Store(context, countries); err != nil {
		logger.WarnContext(context, "country_cache_store_failed", slog.Any("error", err))
	}

	return countries, nil
}

// Create validates and stores a new country.
func (service *Service) Create(context context.Context, input CreateInput) (*Country, error) {
	item := &Country{
		CountryName: strings.TrimSpace(input.CountryName),
		CapitalCity: strings.TrimSpace(input.CapitalCity),
		CountryCode: strings.ToUpper(strings.TrimSpace(input.CountryCode)),
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldCountryName, item.CountryName).
		MaxLen(FieldCountryName, item.CountryName, NameMaxLength).
		Required(FieldCapitalCity, item.CapitalCity).
		MaxLen(FieldCapitalCity, item.CapitalCity, NameMaxLength).
		Required(FieldCountryCode, item.CountryCode).
		MaxLen(FieldCountryCode, item.CountryCode, CodeMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, item); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("country_service_create_failed: %w", err)
	}

	service.invalidate(context)
	ctxutil.GetLogger(context).InfoContext(context, "country_created",
		slog.Int64("country_id", item.ID),
		slog.String("country_code", item.CountryCode),
	)

	return item, nil
}

// Update applies a partial update to an existing country.
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Country, error) {
	patch := Patch{
		CountryName: trimmed(input.CountryName, strings.TrimSpace),
		CapitalCity: trimmed(input.CapitalCity, strings.TrimSpace),
		CountryCode: trimmed(input.CountryCode, func(value string) string {
			return strings.ToUpper(strings.TrimSpace(value))
		}),
	}

	validator := &validate.Validator{}
	if patch.CountryName != nil {
		validator.Required(FieldCountryName, *patch.CountryName).MaxLen(FieldCountryName, *patch.CountryName, NameMaxLength)
	}
	if patch.CapitalCity != nil {
		validator.Required(FieldCapitalCity, *patch.CapitalCity).MaxLen(FieldCapitalCity, *patch.CapitalCity, NameMaxLength)
	}
	if patch.CountryCode != nil {
		validator.Required(FieldCountryCode, *patch.CountryCode).MaxLen(FieldCountryCode, *patch.CountryCode, CodeMaxLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated, err := service.repository.Update(context, id, patch)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("country_service_update_failed: %w", err)
	}

	service.invalidate(context)
	ctxutil.GetLogger(context).InfoContext(context, "country_updated", slog.Int64("country_id", id))

	return updated, nil
}

// Delete removes a country.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("country_service_delete_failed: %w", err)
	}

	service.invalidate(context)
	ctxutil.GetLogger(context).InfoContext(context, "country_deleted", slog.Int64("country_id", id))

	return nil
}

// # Helpers

func (service *Service) invalidate(context context.Context) {
	if err := service.cache.Invalidate(context); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "country_cache_invalidate_failed", slog.Any("error", err))
	}
}

func trimmed(value *string, normalize func(string) string) *string {
	if value == nil {
		return nil
	}
	return pointer.To(normalize(*value))
}
