package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every parse failure in this package.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidEmail          = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrInvalidPassword       = fmt.Errorf("%w: invalid password", ErrValidation)
	ErrInvalidLoginAttemptID = fmt.Errorf("%w: invalid login attempt id", ErrValidation)
	ErrInvalidTwoFACode      = fmt.Errorf("%w: invalid 2FA code", ErrValidation)
)
