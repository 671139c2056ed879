// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/campusconnect/internal/platform/request"
	"github.com/taibuivan/campusconnect/internal/platform/respond"
	"github.com/taibuivan/campusconnect/pkg/pagination"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	commentService *Service
	authenticate   func(http.Handler) http.Handler
}

// NewHandler constructs a comment [Handler]. Every comment route requires authentication.
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{commentService: service, authenticate: authenticate}
}

type contentRequest struct {
	Content string `json:"content"`
}

// Routes returns a [chi.Router] for comments addressed by their own id.
//
// # Endpoints
//   - PUT    /{commentID} : Edit (author or admin).
//   - DELETE /{commentID} : Delete (author or admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.authenticate)

	router.Put("/{commentID}", handler.update)
	router.Delete("/{commentID}", handler.delete)

	return router
}

// RegisterPostRoutes adds the per-post comment endpoints to the post router.
//
// # Endpoints
//   - GET  /{postID}/comments   : Paginated thread, newest first.
//   - POST /{postID}/comments   : Add a comment.
//   - GET  /{postID}/commenters : Who commented (post owner only).
func (handler *Handler) RegisterPostRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)

		r.Get("/{postID}/comments", handler.list)
		r.Post("/{postID}/comments", handler.create)
		r.Get("/{postID}/commenters", handler.commenters)
	})
}

/*
POST /api/v1/posts/{postID}/comments.

Request:
  - content: string (required, 2000 chars max)

Response:
  - 201: Comment
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND: Post does not exist
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.ID(request, "postID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Create(request.Context(), caller, postID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
GET /api/v1/posts/{postID}/comments.

Request:
  - page, limit: query parameters

Response:
  - 200: []Comment with pagination meta
  - 404: NOT_FOUND
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.ID(request, "postID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	result, total, err := handler.commentService.ListByPost(request.Context(), postID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/posts/{postID}/commenters.

Response:
  - 200: []Commenter
  - 403: FORBIDDEN: Caller does not own the post
  - 404: NOT_FOUND
*/
func (handler *Handler) commenters(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.ID(request, "postID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.commentService.Commenters(request.Context(), caller, postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
PUT /api/v1/comments/{commentID}.

Response:
  - 200: Comment
  - 403: FORBIDDEN: Not the author
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Update(request.Context(), caller, id, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// DELETE /api/v1/comments/{commentID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
