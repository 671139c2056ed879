// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/campusconnect/internal/platform/request"
	"github.com/taibuivan/campusconnect/internal/platform/respond"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/pkg/pagination"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// The router expects the authentication gate to be mounted by the caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.list)
		r.Get("/{userID}", handler.get)
		r.Delete("/{userID}", handler.delete)
	})

	// Self-service (ownership enforced by the service)
	router.With(middleware.RequireRole(sec.RoleAdmin, sec.RoleUser)).Put("/{userID}", handler.update)

	return router
}

/*
GET /api/v1/users.

Description: Lists accounts ordered by id.

Request:
  - page, limit: pagination
  - search: matches first name, last name or email

Response:
  - 200: []Profile: Paginated list
  - 403: FORBIDDEN: Admin only
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	profiles, total, err := handler.accountService.List(request.Context(), ListFilter{
		Params: paginationParams,
		Search: strings.TrimSpace(request.URL.Query().Get("search")),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/users/{userID}.

Response:
  - 200: Profile
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// updateRequest defines the partial JSON payload for account updates.
type updateRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	CountryCode *string `json:"countryCode"`
	RoleID      *int64  `json:"roleId"`
}

/*
PUT /api/v1/users/{userID}.

Description: Applies a partial update. Members may update themselves; admins
may update anyone and change roles.

Response:
  - 200: Profile
  - 400: VALIDATION_ERROR or CONFLICT (email in use)
  - 403: FORBIDDEN: Not the owner, or role change by a non-admin
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Update(request.Context(), caller, id, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
DELETE /api/v1/users/{userID}.

Response:
  - 204: No Content
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.Delete(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
