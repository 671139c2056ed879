// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and checking session tokens.
type TokenProvider interface {
	// Issue signs a new access/refresh pair for the given account.
	Issue(userID, roleID int64) (*sec.TokenPair, error)

	// VerifyRefresh validates a refresh token and returns its claims.
	VerifyRefresh(tokenString string) (*sec.Claims, error)
}

// Service implements account authentication use cases.
type Service struct {
	userRepository UserRepository
	loginThrottle  LoginThrottle
	tokenProvider  TokenProvider
	now            func() time.Time

	// dummyHash keeps unknown-email logins as slow as wrong-password logins.
	dummyHash string
}

// timingHash is compared against when the email is unknown.
var timingHash = mustHashPassword("campusconnect-timing-equaliser")

func mustHashPassword(password string) string {
	hash, err := sec.HashPassword(password)
	if err != nil {
		panic(fmt.Sprintf("auth: timing hash: %v", err))
	}
	return hash
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, throttle LoginThrottle, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		loginThrottle:  throttle,
		tokenProvider:  tokenProv,
		now:            time.Now,
		dummyHash:      timingHash,
	}
}

// ResolveIdentity implements the authentication gate's identity lookup.
func (service *Service) ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error) {
	return service.userRepository.ResolveIdentity(context, userID)
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Gender      string
	DateOfBirth string
	Email       string
	Password    string
	CountryCode string
	RoleID      *int64
	InviteCode  string
}

func (service *Service) validateRegistration(input RegisterInput) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, NameMaxLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, NameMaxLength).
		Required(FieldGender, input.Gender).
		Required(FieldDateOfBirth, input.DateOfBirth).
		Date(FieldDateOfBirth, input.DateOfBirth, service.now()).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		Custom(FieldPassword, len(input.Password) > PasswordMaxLength, "Maximum 72 bytes").
		Required(FieldCountryCode, input.CountryCode)

	if input.RoleID != nil {
		validator.Positive(FieldRoleID, *input.RoleID)
	}

	return validator.Err()
}

/*
Register validates, hashes, and persists a brand new account.

Description: The password is hashed before the transaction opens so no
connection is held during bcrypt. Inside the transaction the invite code is
resolved, the requested role is checked, the email is checked and the row is
inserted.

Role selection:
  - A valid invite code decides the role.
  - Otherwise an explicit roleId is honoured if it exists, except the admin role.
  - Otherwise the default user role applies.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Validation, Conflict or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.InviteCode = strings.TrimSpace(input.InviteCode)

	if err := service.validateRegistration(input); err != nil {
		return nil, err
	}

	dateOfBirth, _ := time.Parse(validate.DateLayout, input.DateOfBirth)

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Gender:       strings.TrimSpace(input.Gender),
		DateOfBirth:  dateOfBirth,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		CountryCode:  strings.TrimSpace(input.CountryCode),
		RoleID:       sec.DefaultRoleID,
	}

	err = service.userRepository.WithinRegistration(context, func(tx RegistrationTx) error {

		// 1. Role resolution
		switch {
		case input.InviteCode != "":
			roleID, err := tx.InviteRole(context, input.InviteCode)
			if apperr.HasCode(err, "NOT_FOUND") {
				return validate.FieldError(FieldInviteCode, msgInvalidInvite)
			}
			if err != nil {
				return err
			}
			user.RoleID = roleID

		case input.RoleID != nil:
			if *input.RoleID == sec.RoleIDAdmin {
				return validate.FieldError(FieldRoleID, msgAdminInvite)
			}
			exists, err := tx.RoleExists(context, *input.RoleID)
			if err != nil {
				return err
			}
			if !exists {
				return validate.FieldError(FieldRoleID, msgUnknownRole)
			}
			user.RoleID = *input.RoleID
		}

		// 2. Uniqueness pre-check (the UNIQUE constraint backs it up)
		taken, err := tx.EmailTaken(context, user.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(msgEmailTaken)
		}

		// 3. Insert
		return tx.Insert(context, user)
	})

	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered",
		slog.Int64("user_id", user.ID),
		slog.Int64("role_id", user.RoleID),
	)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates credentials and issues a token pair.

Description: Unknown emails and wrong passwords produce the same error and
spend the same bcrypt work. Failed attempts are counted per email; once the
budget is spent the email is refused with RATE_LIMITED until the window lapses.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Issued tokens and the authenticated caller
  - err: Unauthorized, RateLimited or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	logger := ctxutil.GetLogger(context)

	// 1. Throttle gate (Redis outages fail open; credentials are still checked)
	blocked, err := service.loginThrottle.Blocked(context, email)
	if err != nil {
		logger.WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
	}
	if blocked {
		return nil, apperr.RateLimited(60)
	}

	// 2. Credential check
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil && !apperr.HasCode(err, "NOT_FOUND") {
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if user == nil {
		sec.CheckPasswordHash(input.Password, service.dummyHash)
		service.recordFailure(context, email)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, email)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := service.loginThrottle.Reset(context, email); err != nil {
		logger.WarnContext(context, "login_throttle_reset_failed", slog.Any("error", err))
	}

	// 3. Token issuance with the freshly resolved identity
	identity, err := service.userRepository.ResolveIdentity(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_identity_failed: %w", err)
	}

	return service.issueSession(context, identity)
}

/*
Refresh exchanges a valid refresh token for a new token pair.

Description: The identity is re-fetched so the new access token carries the
account's current role; deleted accounts can no longer refresh.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: Re-issued tokens
  - err: Unauthorized or internal failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {
	claims, err := service.tokenProvider.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized(msgInvalidSession)
	}

	identity, err := service.userRepository.ResolveIdentity(context, claims.UserID)
	if errors.Is(err, sec.ErrIdentityNotFound) {
		return nil, apperr.Unauthorized(msgInvalidSession)
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	return service.issueSession(context, identity)
}

func (service *Service) issueSession(context context.Context, identity *sec.Identity) (*Session, error) {
	tokens, err := service.tokenProvider.Issue(identity.ID, identity.RoleID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "session_issued", slog.Int64("user_id", identity.ID))

	return &Session{Tokens: tokens, User: identity}, nil
}

func (service *Service) recordFailure(context context.Context, email string) {
	if err := service.loginThrottle.RecordFailure(context, email); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_record_failed", slog.Any("error", err))
	}
}
