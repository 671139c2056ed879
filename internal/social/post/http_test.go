// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// fakeGate attaches identity, or rejects with 401 when it is nil.
func fakeGate(identity *sec.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if identity == nil {
				writer.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(request.Context(), identity)))
		})
	}
}

func multipartBody(t *testing.T, fields map[string]string, file []byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

/*
TestHandler_CreateMultipart verifies multipart parsing and the role guard.
*/
func TestHandler_CreateMultipart(t *testing.T) {
	f := newFixture()

	body, contentType := multipartBody(t, map[string]string{"title": "Hi", "content": "There"}, []byte("\x89PNG"), "image/png")
	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	NewHandler(f.service, fakeGate(owner)).Routes().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "https://cdn.campus.edu/posts/")
	assert.Equal(t, []string{"\x89PNG"}, f.uploader.body)

	teacher := &sec.Identity{ID: 9, RoleID: sec.RoleIDTeacher}
	body, contentType = multipartBody(t, map[string]string{"title": "Hi", "content": "There"}, nil, "")
	request = httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", contentType)
	recorder = httptest.NewRecorder()
	NewHandler(f.service, fakeGate(teacher)).Routes().ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

/*
TestHandler_PublicFeed verifies the feed needs no authentication while the
rest of the surface does.
*/
func TestHandler_PublicFeed(t *testing.T) {
	f := newFixture()
	f.seed(t, owner)
	router := NewHandler(f.service, fakeGate(nil)).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"comments":[]`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/mine", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_DeleteGuard verifies ownership through the HTTP surface.
*/
func TestHandler_DeleteGuard(t *testing.T) {
	f := newFixture()
	post := f.seed(t, owner)

	recorder := httptest.NewRecorder()
	NewHandler(f.service, fakeGate(stranger)).Routes().
		ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/1", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	NewHandler(f.service, fakeGate(owner)).Routes().
		ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/1", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.NotContains(t, f.store.posts, post.ID)
}
