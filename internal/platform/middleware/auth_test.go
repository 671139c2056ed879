// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/middleware"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

type fakeResolver struct {
	calls      int
	identities map[int64]*sec.Identity
	err        error
}

func (resolver *fakeResolver) ResolveIdentity(_ context.Context, userID int64) (*sec.Identity, error) {
	resolver.calls++
	if resolver.err != nil {
		return nil, resolver.err
	}
	identity, ok := resolver.identities[userID]
	if !ok {
		return nil, fmt.Errorf("lookup %d: %w", userID, sec.ErrIdentityNotFound)
	}
	return identity, nil
}

func newGateFixture(t *testing.T) (*sec.TokenIssuer, *fakeResolver) {
	t.Helper()
	issuer, err := sec.NewTokenIssuer("gate-access", "gate-refresh")
	require.NoError(t, err)

	resolver := &fakeResolver{identities: map[int64]*sec.Identity{
		5: {ID: 5, Email: "sam@campus.edu", RoleID: sec.RoleIDUser, RoleName: "User"},
		1: {ID: 1, Email: "root@campus.edu", RoleID: sec.RoleIDAdmin, RoleName: "Admin"},
	}}
	return issuer, resolver
}

// echoIdentity writes the resolved caller id so tests can assert what reached the handler.
var echoIdentity = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	_ = json.NewEncoder(writer).Encode(map[string]int64{"id": identity.ID})
})

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	message, _ := body["error"].(string)
	return message
}

/*
TestAuthenticate_RejectsBeforeStoreAccess verifies that missing or invalid
tokens never reach the identity store.
*/
func TestAuthenticate_RejectsBeforeStoreAccess(t *testing.T) {
	issuer, resolver := newGateFixture(t)
	pair, err := issuer.Issue(5, 2)
	require.NoError(t, err)

	expired, err := sec.NewTokenIssuer("gate-access", "gate-refresh")
	require.NoError(t, err)
	oldPair, err := expired.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).Issue(5, 2)
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(request *http.Request)
		message string
	}{
		{"no token", func(*http.Request) {}, "Authentication required"},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, "Invalid or expired token"},
		{"refresh token as access", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.RefreshToken) }, "Invalid or expired token"},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+oldPair.AccessToken) }, "Invalid or expired token"},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+pair.AccessToken) }, "Authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver.calls = 0
			request := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			tt.prepare(request)
			recorder := httptest.NewRecorder()

			middleware.Authenticate(issuer, resolver)(echoIdentity).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, tt.message, errorMessage(t, recorder))
			assert.Zero(t, resolver.calls)
		})
	}
}

/*
TestAuthenticate_TokenSources verifies bearer precedence and cookie fallback.
*/
func TestAuthenticate_TokenSources(t *testing.T) {
	issuer, resolver := newGateFixture(t)
	userPair, err := issuer.Issue(5, 2)
	require.NoError(t, err)
	adminPair, err := issuer.Issue(1, 1)
	require.NoError(t, err)

	t.Run("cookie only", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: "access_token", Value: userPair.AccessToken})
		recorder := httptest.NewRecorder()

		middleware.Authenticate(issuer, resolver)(echoIdentity).ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"id":5}`, recorder.Body.String())
	})

	t.Run("bearer wins over cookie", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+adminPair.AccessToken)
		request.AddCookie(&http.Cookie{Name: "access_token", Value: userPair.AccessToken})
		recorder := httptest.NewRecorder()

		middleware.Authenticate(issuer, resolver)(echoIdentity).ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"id":1}`, recorder.Body.String())
	})

	t.Run("non-bearer header falls back to cookie", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		request.AddCookie(&http.Cookie{Name: "access_token", Value: userPair.AccessToken})
		recorder := httptest.NewRecorder()

		middleware.Authenticate(issuer, resolver)(echoIdentity).ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"id":5}`, recorder.Body.String())
	})
}

/*
TestAuthenticate_ResolverOutcomes verifies deleted users and store failures.
*/
func TestAuthenticate_ResolverOutcomes(t *testing.T) {
	issuer, resolver := newGateFixture(t)
	ghostPair, err := issuer.Issue(77, 2)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+ghostPair.AccessToken)
	recorder := httptest.NewRecorder()
	middleware.Authenticate(issuer, resolver)(echoIdentity).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, recorder))

	resolver.err = errors.New("connection refused")
	recorder = httptest.NewRecorder()
	middleware.Authenticate(issuer, resolver)(echoIdentity).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}

/*
TestRequireRole verifies the role-set guard outcomes.
*/
func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		identity *sec.Identity
		status   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"admin", &sec.Identity{ID: 1, RoleID: sec.RoleIDAdmin}, http.StatusNoContent},
		{"user", &sec.Identity{ID: 5, RoleID: sec.RoleIDUser}, http.StatusNoContent},
		{"teacher", &sec.Identity{ID: 6, RoleID: sec.RoleIDTeacher}, http.StatusForbidden},
		{"custom", &sec.Identity{ID: 7, RoleID: 42}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}
			recorder := httptest.NewRecorder()

			middleware.RequireRole(sec.RoleAdmin, sec.RoleUser)(ok).ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, "Insufficient permissions", errorMessage(t, recorder))
			}
		})
	}
}
