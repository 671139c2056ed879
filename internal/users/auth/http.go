// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/constants"
	requestutil "github.com/taibuivan/campusconnect/internal/platform/request"
	"github.com/taibuivan/campusconnect/internal/platform/respond"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the account entry points (Registration, Login) and the
// session cookie lifecycle (Refresh, Logout).
type Handler struct {
	authService   *Service
	authenticate  func(http.Handler) http.Handler
	secureCookies bool
	now           func() time.Time
}

// NewHandler constructs a new [Handler].
//
// authenticate is the gate mounted on the protected endpoints; secureCookies
// sets the Secure attribute on session cookies (production).
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler, secureCookies bool) *Handler {
	return &Handler{
		authService:   service,
		authenticate:  authenticate,
		secureCookies: secureCookies,
		now:           time.Now,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and sets session cookies.
//   - POST /refresh  : Re-issues session cookies from the refresh cookie.
//   - POST /logout   : Clears session cookies (authenticated).
//   - GET  /me       : Returns the resolved caller (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CountryCode string `json:"countryCode"`
	RoleID      *int64 `json:"roleId"`
	InviteCode  string `json:"inviteCode"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the body returned by login and refresh.
type sessionResponse struct {
	AccessToken string        `json:"accessToken"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	User        *sec.Identity `json:"user"`
}

/*
Register handles the creation of a new account.

POST /api/v1/auth/register

Description: Validates input, resolves the role (invite code, explicit role or
default) and persists the account inside one transaction.

Request:
  - Body: registerRequest

Response:
  - 201: User: Created account (without password)
  - 400: VALIDATION_ERROR or CONFLICT (email already registered)
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Gender:      input.Gender,
		DateOfBirth: input.DateOfBirth,
		Email:       input.Email,
		Password:    input.Password,
		CountryCode: input.CountryCode,
		RoleID:      input.RoleID,
		InviteCode:  input.InviteCode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates an account and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, signs an access/refresh pair and sets both
as HttpOnly cookies. The access token is also returned for bearer clients.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: sessionResponse
  - 401: UNAUTHORIZED: Invalid email or password
  - 429: RATE_LIMITED: Too many failed attempts for this email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
Refresh re-issues the session from the refresh cookie.

POST /api/v1/auth/refresh

Response:
  - 200: sessionResponse
  - 401: UNAUTHORIZED: Missing, invalid or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized(msgInvalidSession))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
Logout ends the browser session.

POST /api/v1/auth/logout

Description: Tokens are stateless, so logout only instructs the browser to
drop both cookies.

Response:
  - 200: Confirmation message
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	for _, cookie := range sec.ClearedSessionCookies(handler.secureCookies) {
		http.SetCookie(writer, cookie)
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "Logged out successfully"})
}

/*
Me returns the authenticated caller.

GET /api/v1/auth/me

Response:
  - 200: sec.Identity
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// writeSession sets both session cookies and writes the session body.
func (handler *Handler) writeSession(writer http.ResponseWriter, session *Session) {
	for _, cookie := range sec.SessionCookies(session.Tokens, handler.now(), handler.secureCookies) {
		http.SetCookie(writer, cookie)
	}

	respond.OK(writer, sessionResponse{
		AccessToken: session.Tokens.AccessToken,
		ExpiresAt:   session.Tokens.AccessExpiresAt,
		User:        session.User,
	})
}
