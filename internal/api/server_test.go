// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusconnect/internal/core/country"
	"github.com/taibuivan/campusconnect/internal/platform/config"
	"github.com/taibuivan/campusconnect/internal/platform/middleware"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/social/comment"
	"github.com/taibuivan/campusconnect/internal/social/post"
	"github.com/taibuivan/campusconnect/internal/users/account"
	"github.com/taibuivan/campusconnect/internal/users/auth"
)

type noIdentities struct{}

func (noIdentities) ResolveIdentity(context.Context, int64) (*sec.Identity, error) {
	return nil, sec.ErrIdentityNotFound
}

// newTestServer wires real handlers over services whose stores are never
// reached: every request below is rejected or answered before that point.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	issuer, err := sec.NewTokenIssuer("server-access", "server-refresh")
	require.NoError(t, err)
	authenticate := middleware.Authenticate(issuer, noIdentities{})

	liveness, readiness := NewHealthHandlers(HealthDependencies{}, discardLogger())
	cfg := &config.Config{ServerPort: "0", AllowedOrigins: []string{"https://campus.edu"}}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := NewServer(ctx, cfg, discardLogger(), Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Authenticate: authenticate,
		Auth:         auth.NewHandler(auth.NewService(nil, nil, issuer), authenticate, false),
		Account:      account.NewHandler(account.NewService(nil)),
		Post:         post.NewHandler(post.NewService(nil, nil, nil), authenticate),
		Comment:      comment.NewHandler(comment.NewService(nil, nil), authenticate),
		Country:      country.NewHandler(country.NewService(nil, nil), authenticate),
	})
	return server.Handler()
}

/*
TestServer_ProtectedRoutesRequireAuthentication verifies every protected mount applies the gate.
*/
func TestServer_ProtectedRoutesRequireAuthentication(t *testing.T) {
	handler := newTestServer(t)

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPut, "/api/v1/users/5"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/posts/mine"},
		{http.MethodDelete, "/api/v1/posts/3"},
		{http.MethodGet, "/api/v1/posts/3/comments"},
		{http.MethodPost, "/api/v1/posts/3/comments"},
		{http.MethodGet, "/api/v1/posts/3/commenters"},
		{http.MethodPut, "/api/v1/comments/4"},
		{http.MethodGet, "/api/v1/countries"},
		{http.MethodDelete, "/api/v1/countries/1"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.target, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(route.method, route.target, nil))
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}

/*
TestServer_Infrastructure verifies health probes, request ids and CORS.
*/
func TestServer_Infrastructure(t *testing.T) {
	handler := newTestServer(t)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	preflight.Header.Set("Origin", "https://campus.edu")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://campus.edu", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	foreign := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, foreign)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
