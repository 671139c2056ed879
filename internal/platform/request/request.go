// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
Identifiers taken from URLs are canonicalised to int64 here, at the boundary.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/platform/validate"
	"github.com/taibuivan/campusconnect/pkg/convert"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to bound the body size)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	body := http.MaxBytesReader(writer, request.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ID retrieves a named URL parameter and parses it as a canonical int64 id.

Returns:
  - int64: the parsed identifier
  - error: a VALIDATION_ERROR naming the parameter when it is malformed
*/
func ID(request *http.Request, name string) (int64, error) {
	id, ok := convert.ToID(chi.URLParam(request, name))
	if !ok {
		return 0, validate.FieldError(name, "Must be a positive integer")
	}
	return id, nil
}

/*
Identity extracts the resolved caller from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the caller.

Returns:
  - *sec.Identity: The authenticated caller
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return identity, nil
}

// # Multipart

// ParseMultipart parses a multipart/form-data body bounded by maxBytes.
//
// Bodies over the limit yield a PAYLOAD_TOO_LARGE error; any other parse
// failure yields [validate.ErrInvalidForm].
func ParseMultipart(writer http.ResponseWriter, request *http.Request, maxBytes int64) error {

	// Leave headroom for the text fields that accompany the file
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes+maxJSONBody)

	if err := request.ParseMultipartForm(maxJSONBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge("Upload exceeds the maximum allowed size")
		}
		return validate.ErrInvalidForm
	}
	return nil
}

// OptionalFile returns the uploaded file for field, or nil when none was sent.
func OptionalFile(request *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, validate.ErrInvalidForm
	}
	return file, header, nil
}

// OptionalFormValue returns a pointer to the form value when the field is present.
//
// It distinguishes an absent field (nil) from a field sent empty.
func OptionalFormValue(request *http.Request, field string) *string {
	if request.MultipartForm == nil {
		return nil
	}
	values, ok := request.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}
