// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusconnect/internal/platform/constants"
	"github.com/taibuivan/campusconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/campusconnect/internal/platform/request"
	"github.com/taibuivan/campusconnect/internal/platform/respond"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// Handler implements the HTTP layer for posts.
type Handler struct {
	postService  *Service
	authenticate func(http.Handler) http.Handler
}

// NewHandler constructs a post [Handler]. authenticate guards every route
// except the public feed.
func NewHandler(service *Service, authenticate func(http.Handler) http.Handler) *Handler {
	return &Handler{postService: service, authenticate: authenticate}
}

// Routes returns a [chi.Router] configured with the post endpoints.
//
// # Endpoints
//   - GET    /               : Public feed with authors and comments.
//   - POST   /               : Create (Admin, User; multipart).
//   - GET    /mine           : Caller's posts with comments.
//   - GET    /user/{userID}  : One user's posts.
//   - PUT    /{postID}       : Update (owner or admin; multipart).
//   - DELETE /{postID}       : Delete (owner or admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.feed)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.authenticate)

		r.With(middleware.RequireRole(sec.RoleAdmin, sec.RoleUser)).Post("/", handler.create)
		r.Get("/mine", handler.mine)
		r.Get("/user/{userID}", handler.byUser)
		r.Put("/{postID}", handler.update)
		r.Delete("/{postID}", handler.delete)
	})

	return router
}

// readMedia extracts the optional "image" part of a parsed multipart form.
// The returned cleanup closes the file and removes temporary parts.
func readMedia(request *http.Request) (*Media, func(), error) {
	cleanup := func() {
		if request.MultipartForm != nil {
			_ = request.MultipartForm.RemoveAll()
		}
	}

	file, header, err := requestutil.OptionalFile(request, FieldImage)
	if err != nil || file == nil {
		return nil, cleanup, err
	}

	media := &Media{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}

	return media, func() { _ = file.Close(); cleanup() }, nil
}

/*
POST /api/v1/posts.

Description: Creates a post from a multipart form with an optional media file.

Request:
  - title, content: form fields
  - image: optional file (jpeg, png, gif, mp4, webm, quicktime; 25 MiB max)

Response:
  - 201: Post
  - 400: VALIDATION_ERROR
  - 413: PAYLOAD_TOO_LARGE
  - 503: SERVICE_UNAVAILABLE: Media sent while storage is not configured
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request, constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	media, cleanup, err := readMedia(request)
	defer cleanup()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.postService.Create(request.Context(), caller, CreateInput{
		Title:   request.FormValue(FieldTitle),
		Content: request.FormValue(FieldContent),
		Media:   media,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

/*
GET /api/v1/posts.

Response:
  - 200: []FeedPost: Newest first, each with author and comments
*/
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	feed, err := handler.postService.Feed(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, feed)
}

/*
GET /api/v1/posts/mine.

Response:
  - 200: []FeedPost: The caller's posts
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	feed, err := handler.postService.Mine(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, feed)
}

/*
GET /api/v1/posts/user/{userID}.

Response:
  - 200: []Post
  - 400: VALIDATION_ERROR: Malformed id
*/
func (handler *Handler) byUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.postService.ByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
PUT /api/v1/posts/{postID}.

Description: Replaces title and content. A new image replaces the stored URL;
sending image_url empty clears it.

Response:
  - 200: Post
  - 403: FORBIDDEN: Not the owner
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "postID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request, constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	media, cleanup, err := readMedia(request)
	defer cleanup()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.postService.Update(request.Context(), caller, id, UpdateInput{
		Title:    request.FormValue(FieldTitle),
		Content:  request.FormValue(FieldContent),
		Media:    media,
		ImageURL: requestutil.OptionalFormValue(request, FieldImageURL),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
DELETE /api/v1/posts/{postID}.

Response:
  - 204: No Content
  - 403: FORBIDDEN: Not the owner
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "postID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.postService.Delete(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
