// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"
	"time"

	"github.com/taibuivan/campusconnect/internal/platform/constants"
)

// # Session Cookies

// SessionCookies builds the access and refresh cookies for a token pair.
//
// Both cookies are HttpOnly, SameSite=Strict and scoped to the whole site.
// The Secure flag is set when secure is true (production deployments).
func SessionCookies(pair *TokenPair, now time.Time, secure bool) []*http.Cookie {
	return []*http.Cookie{
		sessionCookie(constants.AccessTokenCookieName, pair.AccessToken, pair.AccessExpiresAt, now, secure),
		sessionCookie(constants.RefreshTokenCookieName, pair.RefreshToken, pair.RefreshExpiresAt, now, secure),
	}
}

// ClearedSessionCookies returns cookies that instruct the browser to drop both session cookies.
func ClearedSessionCookies(secure bool) []*http.Cookie {
	expire := func(name string) *http.Cookie {
		return &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.SessionCookiePath,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		}
	}
	return []*http.Cookie{
		expire(constants.AccessTokenCookieName),
		expire(constants.RefreshTokenCookieName),
	}
}

func sessionCookie(name, value string, expiresAt, now time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(expiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
