// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

const (
	accessSecret  = "access-secret-for-tests"
	refreshSecret = "refresh-secret-for-tests"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newIssuer(t *testing.T, now time.Time) *sec.TokenIssuer {
	t.Helper()
	issuer, err := sec.NewTokenIssuer(accessSecret, refreshSecret)
	require.NoError(t, err)
	return issuer.WithClock(fixedClock(now))
}

// # Password Hashing

/*
TestHashPassword verifies bcrypt cost, salting and verification.
*/
func TestHashPassword(t *testing.T) {
	digest, err := sec.HashPassword("s3cret!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	assert.NotContains(t, digest, "s3cret!")

	again, err := sec.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, digest, again)

	assert.True(t, sec.CheckPasswordHash("s3cret!", digest))
	assert.True(t, sec.CheckPasswordHash("s3cret!", again))
	assert.False(t, sec.CheckPasswordHash("wrong", digest))
}

/*
TestCheckPasswordHash_Malformed verifies that broken digests fail closed.
*/
func TestCheckPasswordHash_Malformed(t *testing.T) {
	for _, digest := range []string{"", "not-a-hash", "$2a$10$short"} {
		assert.False(t, sec.CheckPasswordHash("anything", digest), digest)
	}
}

// # Token Issuer

/*
TestNewTokenIssuer_Secrets verifies construction rejects unusable secret pairs.
*/
func TestNewTokenIssuer_Secrets(t *testing.T) {
	_, err := sec.NewTokenIssuer("", refreshSecret)
	assert.ErrorIs(t, err, sec.ErrMissingSecret)

	_, err = sec.NewTokenIssuer(accessSecret, "")
	assert.ErrorIs(t, err, sec.ErrMissingSecret)

	_, err = sec.NewTokenIssuer(accessSecret, accessSecret)
	assert.ErrorIs(t, err, sec.ErrSharedSecret)
}

/*
TestIssue_ClaimsAndExpiry verifies claims and exact lifetimes of both tokens.
*/
func TestIssue_ClaimsAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(t, now)

	pair, err := issuer.Issue(42, 2)
	require.NoError(t, err)

	assert.Equal(t, now.Add(20*time.Minute), pair.AccessExpiresAt)
	assert.Equal(t, now.Add(30*24*time.Hour), pair.RefreshExpiresAt)

	access, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)
	assert.Equal(t, int64(2), access.RoleID)
	assert.Equal(t, now.Unix(), access.IssuedAt.Unix())
	assert.Equal(t, now.Add(20*time.Minute).Unix(), access.ExpiresAt.Unix())

	refresh, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refresh.UserID)
	assert.Equal(t, now.Add(30*24*time.Hour).Unix(), refresh.ExpiresAt.Unix())
}

/*
TestVerify_Rejections verifies each class of bad token is refused.
*/
func TestVerify_Rejections(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(t, now)
	pair, err := issuer.Issue(7, 2)
	require.NoError(t, err)

	foreign, err := sec.NewTokenIssuer("other-access", "other-refresh")
	require.NoError(t, err)
	foreignPair, err := foreign.WithClock(fixedClock(now)).Issue(7, 2)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, sec.Claims{
		UserID: 7, RoleID: 1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sec.Claims{UserID: 7, RoleID: 2}).
		SignedString([]byte(accessSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong secret", foreignPair.AccessToken},
		{"refresh as access", pair.RefreshToken},
		{"alg none", noneToken},
		{"missing exp", noExpiry},
		{"tampered", pair.AccessToken[:len(pair.AccessToken)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.VerifyAccess(tt.token)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}

	_, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken, "access token must not pass as refresh")
}

/*
TestVerify_Expired verifies tokens are refused once their lifetime has elapsed.
*/
func TestVerify_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pair, err := newIssuer(t, now).Issue(7, 2)
	require.NoError(t, err)

	later := newIssuer(t, now.Add(21*time.Minute))
	_, err = later.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = later.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

// # Cookies

/*
TestSessionCookies verifies cookie attributes for issued and cleared sessions.
*/
func TestSessionCookies(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pair, err := newIssuer(t, now).Issue(7, 2)
	require.NoError(t, err)

	cookies := sec.SessionCookies(pair, now, true)
	require.Len(t, cookies, 2)

	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, 1200, cookies[0].MaxAge)
	assert.Equal(t, "refresh_token", cookies[1].Name)
	assert.Equal(t, 30*24*3600, cookies[1].MaxAge)

	for _, cookie := range cookies {
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, "/", cookie.Path)
	}

	for _, cookie := range sec.ClearedSessionCookies(false) {
		assert.Empty(t, cookie.Value)
		assert.Equal(t, -1, cookie.MaxAge)
		assert.False(t, cookie.Secure)
		assert.True(t, strings.HasSuffix(cookie.Name, "_token"))
	}
}

// # Roles & Guards

/*
TestKindOf verifies the role id to kind table.
*/
func TestKindOf(t *testing.T) {
	assert.Equal(t, sec.RoleAdmin, sec.KindOf(1))
	assert.Equal(t, sec.RoleUser, sec.KindOf(2))
	assert.Equal(t, sec.RoleTeacher, sec.KindOf(3))
	assert.Equal(t, sec.RoleCustom, sec.KindOf(99))
	assert.True(t, sec.RoleUser.In(sec.RoleAdmin, sec.RoleUser))
	assert.False(t, sec.RoleCustom.In(sec.RoleAdmin, sec.RoleUser))
	assert.Equal(t, "teacher", sec.RoleTeacher.String())
}

/*
TestCanModify verifies the ownership-or-admin rule on canonical ids.
*/
func TestCanModify(t *testing.T) {
	owner := &sec.Identity{ID: 5, RoleID: sec.RoleIDUser}
	stranger := &sec.Identity{ID: 6, RoleID: sec.RoleIDUser}
	admin := &sec.Identity{ID: 1, RoleID: sec.RoleIDAdmin}
	teacher := &sec.Identity{ID: 9, RoleID: sec.RoleIDTeacher}

	assert.True(t, sec.CanModify(owner, 5))
	assert.False(t, sec.CanModify(stranger, 5))
	assert.True(t, sec.CanModify(admin, 5))
	assert.False(t, sec.CanModify(teacher, 5))
	assert.False(t, sec.CanModify(nil, 5))
}
