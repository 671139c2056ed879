// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
)

/*
TestConstructors_Status verifies the HTTP status fixed by each error class.
*/
func TestConstructors_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", apperr.Conflict("taken"), http.StatusBadRequest, "CONFLICT"},
		{"unauthorized", apperr.Unauthorized("no"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", apperr.NotFound("Post"), http.StatusNotFound, "NOT_FOUND"},
		{"too large", apperr.PayloadTooLarge("big"), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"rate limited", apperr.RateLimited(60), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unavailable", apperr.ServiceUnavailable("off"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestInternal_HidesCause verifies that the cause never leaks into the client message.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation person does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "person")
	assert.ErrorIs(t, err, cause)
}

/*
TestAs_WrappedChain verifies extraction through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("service_failed: %w", apperr.NotFound("User"))

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.HasCode(wrapped, "NOT_FOUND"))
	assert.Equal(t, "User not found", apperr.As(wrapped).Message)
	assert.Nil(t, apperr.As(errors.New("plain")))
}
