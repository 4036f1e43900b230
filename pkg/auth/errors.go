package auth

import (
	apperrors "github.com/tendant/simple-auth/pkg/errors"
)

var (
	ErrInvalidCredentials   = apperrors.New(apperrors.ErrCodeInvalidCredentials, "Invalid credentials")
	ErrIncorrectCredentials = apperrors.New(apperrors.ErrCodeAuthFailed, "Incorrect credentials")
	ErrUserAlreadyExists    = apperrors.New(apperrors.ErrCodeUserAlreadyExists, "User already exists")
	ErrMissingToken         = apperrors.New(apperrors.ErrCodeMissingToken, "Missing auth token")
	ErrInvalidToken         = apperrors.New(apperrors.ErrCodeTokenInvalid, "Invalid auth token")
)
