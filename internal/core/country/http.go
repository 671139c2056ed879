// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package country

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/campusconnect/internal/platform/request"
	"github.com/taibuivan/campusconnect/internal/platform/respond"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// Handler implements the HTTP layer for countries.
type Handler struct {
	countryService *Service
	authenticate   func(http.Handler) http.Handler
}

// NewHandler constructs a country [Handler].
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{countryService: service, authenticate: authenticate}
}

type createRequest struct {
	CountryName string `json:"country_name"`
	CapitalCity string `json:"capital_city"`
	CountryCode string `json:"country_code"`
}

type updateRequest struct {
	CountryName *string `json:"country_name"`
	CapitalCity *string `json:"capital_city"`
	CountryCode *string `json:"country_code"`
}

// Routes returns a [chi.Router] configured with the country endpoints.
//
// # Endpoints
//   - GET    /             : List (any authenticated caller).
//   - POST   /             : Create (Admin).
//   - PUT    /{countryID}  : Partial update (Admin).
//   - DELETE /{countryID}  : Delete (Admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.authenticate)

	router.Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))

		r.Post("/", handler.create)
		r.Put("/{countryID}", handler.update)
		r.Delete("/{countryID}", handler.delete)
	})

	return router
}

// GET /api/v1/countries.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	countries, err := handler.countryService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countries)
}

/*
POST /api/v1/countries.

Response:
  - 201: Country
  - 400: VALIDATION_ERROR or CONFLICT (code taken)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.countryService.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
PUT /api/v1/countries/{countryID}.

Response:
  - 200: Country
  - 400: VALIDATION_ERROR or CONFLICT
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "countryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.countryService.Update(request.Context(), id, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// DELETE /api/v1/countries/{countryID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "countryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.countryService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
