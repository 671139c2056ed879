// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/platform/validate"
	"github.com/taibuivan/campusconnect/internal/users/auth"
	"github.com/taibuivan/campusconnect/pkg/pointer"
)

const (
	msgEmailInUse     = "Email already in use by another account"
	msgUnknownRole    = "Unknown role"
	msgNotYourProfile = "You can't update someone else's profile"
	msgRoleChange     = "Only administrators can change roles"
)

// # Service Layer

// Service orchestrates business logic for account management.
type Service struct {
	accountRepository AccountRepository
	now               func() time.Time
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository) *Service {
	return &Service{accountRepository: accountRepo, now: time.Now}
}

// # Queries

/*
List returns a page of accounts.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*Profile: Page of accounts
  - int: Total matches
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter ListFilter) ([]*Profile, int, error) {
	profiles, total, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return profiles, total, nil
}

// Get returns one account or apperr.NotFound.
func (service *Service) Get(context context.Context, id int64) (*Profile, error) {
	profile, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return profile, nil
}

// # Mutations

// UpdateInput is a partial update request. Nil fields are left unchanged.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Gender      *string
	DateOfBirth *string
	Email       *string
	Password    *string
	CountryCode *string
	RoleID      *int64
}

func (service *Service) validateUpdate(input UpdateInput) error {
	validator := &validate.Validator{}

	if input.FirstName != nil {
		validator.Required(auth.FieldFirstName, *input.FirstName).MaxLen(auth.FieldFirstName, *input.FirstName, auth.NameMaxLength)
	}
	if input.LastName != nil {
		validator.Required(auth.FieldLastName, *input.LastName).MaxLen(auth.FieldLastName, *input.LastName, auth.NameMaxLength)
	}
	if input.Gender != nil {
		validator.Required(auth.FieldGender, *input.Gender)
	}
	if input.DateOfBirth != nil {
		validator.Date(auth.FieldDateOfBirth, *input.DateOfBirth, service.now())
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).
			Email(auth.FieldEmail, *input.Email).
			MaxLen(auth.FieldEmail, *input.Email, auth.EmailMaxLength)
	}
	if input.Password != nil {
		validator.MinLen(auth.FieldPassword, *input.Password, auth.PasswordMinLength).
			Custom(auth.FieldPassword, len(*input.Password) > auth.PasswordMaxLength, "Maximum 72 bytes")
	}
	if input.CountryCode != nil {
		validator.Required(auth.FieldCountryCode, *input.CountryCode)
	}
	if input.RoleID != nil {
		validator.Positive(auth.FieldRoleID, *input.RoleID)
	}

	return validator.Err()
}

/*
Update applies a partial update on behalf of caller.

Description: Callers may update their own account; admins may update any.
Only admins may change the role. The password is re-hashed before the
transaction opens. Ownership is checked against the locked row.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - id: int64 (target account)
  - input: UpdateInput

Returns:
  - *Profile: Updated account
  - error: Validation, Forbidden, NotFound, Conflict or storage errors
*/
func (service *Service) Update(context context.Context, caller *sec.Identity, id int64, input UpdateInput) (*Profile, error) {
	if err := service.validateUpdate(input); err != nil {
		return nil, err
	}

	if input.RoleID != nil && !caller.IsAdmin() {
		return nil, apperr.Forbidden(msgRoleChange)
	}

	patch := Patch{
		FirstName:   trimmed(input.FirstName),
		LastName:    trimmed(input.LastName),
		Gender:      trimmed(input.Gender),
		Email:       trimmed(input.Email),
		CountryCode: trimmed(input.CountryCode),
		RoleID:      input.RoleID,
	}

	if input.DateOfBirth != nil {
		dateOfBirth, _ := time.Parse(validate.DateLayout, *input.DateOfBirth)
		patch.DateOfBirth = &dateOfBirth
	}

	if input.Password != nil {
		hashed, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		patch.PasswordHash = &hashed
	}

	profile, err := service.accountRepository.Update(context, id, patch, func(current *Profile) error {
		if !sec.CanModify(caller, current.ID) {
			return apperr.Forbidden(msgNotYourProfile)
		}
		return nil
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_updated",
		slog.Int64("user_id", id),
		slog.Int64("actor_id", caller.ID),
		slog.Bool("password_changed", patch.PasswordHash != nil),
	)

	return profile, nil
}

/*
Delete removes an account and, through cascading keys, its posts and comments.

Parameters:
  - context: context.Context
  - caller: *sec.Identity (for the audit log)
  - id: int64

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, caller *sec.Identity, id int64) error {
	if err := service.accountRepository.Delete(context, id); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_deleted",
		slog.Int64("user_id", id),
		slog.Int64("actor_id", caller.ID),
	)

	return nil
}

// trimmed returns a trimmed copy of value, preserving nil.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	return pointer.To(strings.TrimSpace(*value))
}
