package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeMalformedRequest ErrorCode = "MALFORMED_REQUEST"

	// Authentication errors
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAuthFailed         ErrorCode = "AUTH_FAILED"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeTokenInvalid       ErrorCode = "TOKEN_INVALID"

	// User errors
	ErrCodeUserAlreadyExists ErrorCode = "USER_ALREADY_EXISTS"
)

// Error represents a structured error with code and client-safe message
type Error struct {
	Code    ErrorCode // Unique error code
	Message string    // Human-readable message, safe to return to clients
	Err     error     // Wrapped underlying error, never shown to clients
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetMessage extracts the client-safe message, falling back to fallback
// for errors that are not structured.
func GetMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	// 400 Bad Request
	case ErrCodeInvalidCredentials, ErrCodeMissingToken:
		return http.StatusBadRequest

	// 401 Unauthorized
	case ErrCodeAuthFailed, ErrCodeTokenInvalid:
		return http.StatusUnauthorized

	// 409 Conflict
	case ErrCodeUserAlreadyExists:
		return http.StatusConflict

	// 422 Unprocessable Entity
	case ErrCodeMalformedRequest:
		return http.StatusUnprocessableEntity

	// 500 Internal Server Error (default)
	case ErrCodeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// Internal wraps an infrastructure failure behind a generic message
func Internal(err error) *Error {
	return Wrap(err, ErrCodeInternal, "Unexpected error")
}
