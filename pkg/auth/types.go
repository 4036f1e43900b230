package auth

import (
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

const (
	TwoFAEmailSubject = "Two Factor Authentication Code"
	twoFAEmailBody    = "Your code is: %s"
)

type SignupRequest struct {
	Email       string
	Password    string
	Requires2FA bool
}

type LoginRequest struct {
	Email    string
	Password string
}

type VerifyTwoFARequest struct {
	Email          string
	LoginAttemptID string
	TwoFACode      string
}

// Session is an issued session token and its expiry.
type Session struct {
	Token     domain.SessionToken
	ExpiresAt time.Time
}

// LoginResult holds either a Session or, when RequiresTwoFA is set, the
// attempt id the client must send back with the mailed code.
type LoginResult struct {
	RequiresTwoFA  bool
	LoginAttemptID domain.LoginAttemptID
	Session        Session
}
