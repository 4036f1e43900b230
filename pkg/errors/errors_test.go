package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := stderrors.New("connection refused")

	t.Run("Format", func(t *testing.T) {
		assert.Equal(t, "[MISSING_TOKEN] Missing auth token", New(ErrCodeMissingToken, "Missing auth token").Error())
		assert.Equal(t, "[INTERNAL_ERROR] Unexpected error: connection refused", Internal(cause).Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		err := fmt.Errorf("login: %w", Internal(cause))
		assert.ErrorIs(t, err, cause)
		assert.True(t, IsCode(err, ErrCodeInternal))
		assert.Equal(t, "Unexpected error", GetMessage(err, "fallback"))
	})

	t.Run("WrapNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	})

	t.Run("Unstructured", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetCode(cause))
		assert.Equal(t, "fallback", GetMessage(cause, "fallback"))
		assert.False(t, IsCode(cause, ErrCodeInternal))
	})
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeInvalidCredentials: http.StatusBadRequest,
		ErrCodeMissingToken:       http.StatusBadRequest,
		ErrCodeAuthFailed:         http.StatusUnauthorized,
		ErrCodeTokenInvalid:       http.StatusUnauthorized,
		ErrCodeUserAlreadyExists:  http.StatusConflict,
		ErrCodeMalformedRequest:   http.StatusUnprocessableEntity,
		ErrCodeInternal:           http.StatusInternalServerError,
		ErrorCode("SOMETHING"):    http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, MapErrorCodeToHTTPStatus(code), "code %s", code)
	}
}
