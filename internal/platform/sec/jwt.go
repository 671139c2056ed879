// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, token management and the
// authorization vocabulary (roles, identities, ownership guard).
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It is an Infrastructure service injected into handlers,
// services and middleware through constructors.
//
// # Tokens
//
// Two HS256 tokens are issued per session. The access token is short lived
// and signed with the primary secret. The refresh token is long lived and
// signed with a distinct refresh secret, so one can never stand in for the other.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/campusconnect/internal/platform/constants"
)

var (
	// ErrMissingSecret is returned when a signing secret is empty.
	ErrMissingSecret = errors.New("sec: token signing secret is not configured")

	// ErrSharedSecret is returned when access and refresh tokens would share a secret.
	ErrSharedSecret = errors.New("sec: access and refresh secrets must differ")

	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("sec: invalid or expired token")
)

// Claims represents the payload embedded inside both session tokens.
type Claims struct {
	UserID int64 `json:"userId"`
	RoleID int64 `json:"roleId"`
	jwt.RegisteredClaims
}

// TokenPair carries a freshly signed access/refresh pair and their expiries.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens using HS256.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer creates a [TokenIssuer] from the two signing secrets.
//
// # Errors
//   - [ErrMissingSecret] when either secret is empty.
//   - [ErrSharedSecret] when both secrets are identical.
func NewTokenIssuer(accessSecret, refreshSecret string) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if accessSecret == refreshSecret {
		return nil, ErrSharedSecret
	}

	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     constants.AccessTokenTTL,
		refreshTTL:    constants.RefreshTokenTTL,
		now:           time.Now,
	}, nil
}

// WithClock replaces the time source used for issuing and verifying tokens.
func (issuer *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	issuer.now = now
	return issuer
}

// Issue signs a new access/refresh pair for the given user and role.
func (issuer *TokenIssuer) Issue(userID, roleID int64) (*TokenPair, error) {
	issuedAt := issuer.now()

	accessToken, accessExpiry, err := issuer.sign(userID, roleID, issuedAt, issuer.accessTTL, issuer.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	refreshToken, refreshExpiry, err := issuer.sign(userID, roleID, issuedAt, issuer.refreshTTL, issuer.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (issuer *TokenIssuer) VerifyAccess(tokenString string) (*Claims, error) {
	return issuer.verify(tokenString, issuer.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (issuer *TokenIssuer) VerifyRefresh(tokenString string) (*Claims, error) {
	return issuer.verify(tokenString, issuer.refreshSecret)
}

func (issuer *TokenIssuer) sign(userID, roleID int64, issuedAt time.Time, ttl time.Duration, secret []byte) (string, time.Time, error) {
	expiresAt := issuedAt.Add(ttl)
	claims := Claims{
		UserID: userID,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signedToken, expiresAt, nil
}

func (issuer *TokenIssuer) verify(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(issuer.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
