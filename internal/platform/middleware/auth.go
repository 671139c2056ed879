// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/constants"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/respond"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// Client-facing messages. Each failure class has exactly one message so that
// responses do not reveal which check failed.
const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
	msgForbidden    = "Insufficient permissions"
)

// TokenVerifier validates an access token and returns its claims.
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenIssuer], allowing fakes during unit testing.
type TokenVerifier interface {
	VerifyAccess(tokenString string) (*sec.Claims, error)
}

// IdentityResolver loads the current state of a caller by id.
//
// It must return [sec.ErrIdentityNotFound] (possibly wrapped) when the id no longer exists.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID int64) (*sec.Identity, error)
}

// Authenticate is the authentication gate for protected route groups.
//
// # Flow
//  1. Extract the token: 'Authorization: Bearer <token>' first, 'access_token' cookie second.
//  2. Missing token: 401 before any store access.
//  3. Verify the token via [TokenVerifier]; any failure is the same generic 401.
//  4. Re-fetch the caller via [IdentityResolver]; unknown ids are 401, store failures 500.
//  5. Inject [*sec.Identity] into the request context and call next.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extraction
			token := extractToken(request)
			if token == "" {
				respond.Error(writer, request, apperr.Unauthorized(msgAuthRequired))
				return
			}

			// 2. Verification
			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized(msgInvalidToken))
				return
			}

			// 3. Fresh identity lookup
			identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if errors.Is(err, sec.ErrIdentityNotFound) {
				respond.Error(writer, request, apperr.Unauthorized(msgInvalidToken))
				return
			}
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// 4. Context injection
			identitySlot(request.Context()).Store(identity.ID)
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests whose caller's role kind is not in kinds.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Missing identity in context: 401.
//  2. Role kind not in the allowed set: 403.
func RequireRole(kinds ...sec.RoleKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized(msgAuthRequired))
				return
			}

			if !identity.Kind().In(kinds...) {
				respond.Error(writer, request, apperr.Forbidden(msgForbidden))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// extractToken returns the bearer token or, failing that, the access cookie value.
// A non-bearer Authorization header does not hide the cookie.
func extractToken(request *http.Request) string {
	if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// # Log Correlation

type slotKey struct{}

// withIdentitySlot gives the access logger a place to read the caller id once
// the gate (mounted further down the chain) has resolved it.
func withIdentitySlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, slotKey{}, new(atomic.Int64))
}

func identitySlot(ctx context.Context) *atomic.Int64 {
	if slot, ok := ctx.Value(slotKey{}).(*atomic.Int64); ok {
		return slot
	}
	return new(atomic.Int64)
}
