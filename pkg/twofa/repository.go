package twofa

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

// DefaultCodeTTL is how long a mailed code stays usable.
const DefaultCodeTTL = 10 * time.Minute

var (
	ErrCodeNotFound = errors.New("2FA code not found")
	ErrCodeMismatch = errors.New("2FA code does not match")
	ErrBackend      = errors.New("2FA code store backend error")
)

// TwoFACodeStore holds at most one pending challenge per email.
type TwoFACodeStore interface {
	// AddCode stores a challenge for email, replacing any previous one.
	AddCode(ctx context.Context, email domain.Email, loginAttemptID domain.LoginAttemptID, code domain.TwoFACode) error

	// GetCode returns the pending challenge or ErrCodeNotFound.
	GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error)

	// RemoveCode deletes the pending challenge or returns ErrCodeNotFound.
	RemoveCode(ctx context.Context, email domain.Email) error

	// ConsumeCode removes the challenge only if both loginAttemptID and code match it.
	// It returns ErrCodeNotFound when nothing is pending and ErrCodeMismatch otherwise.
	ConsumeCode(ctx context.Context, email domain.Email, loginAttemptID domain.LoginAttemptID, code domain.TwoFACode) error
}

// codeRecord is the persisted form of one challenge.
type codeRecord struct {
	Email          string    `json:"email"`
	LoginAttemptID string    `json:"login_attempt_id"`
	Code           string    `json:"code"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func newCodeRecord(email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode, expiresAt time.Time) codeRecord {
	return codeRecord{
		Email:          email.String(),
		LoginAttemptID: id.String(),
		Code:           code.Expose(),
		ExpiresAt:      expiresAt,
	}
}

func (r codeRecord) expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

func (r codeRecord) matches(id domain.LoginAttemptID, code domain.TwoFACode) bool {
	idOK := subtle.ConstantTimeCompare([]byte(r.LoginAttemptID), []byte(id.String())) == 1
	codeOK := subtle.ConstantTimeCompare([]byte(r.Code), []byte(code.Expose())) == 1
	return idOK && codeOK
}

func (r codeRecord) values() (domain.LoginAttemptID, domain.TwoFACode, error) {
	id, err := domain.ParseLoginAttemptID(r.LoginAttemptID)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, err
	}
	code, err := domain.ParseTwoFACode(r.Code)
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, err
	}
	return id, code, nil
}
