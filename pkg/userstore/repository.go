// Package userstore keeps user records keyed by email. Backends: in-memory,
// JSON file and PostgreSQL; all of them satisfy UserStore.
package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/simple-auth/pkg/domain"
	"github.com/tendant/simple-auth/pkg/password"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore creates, reads and validates users.
type UserStore interface {
	// AddUser inserts user, failing with ErrUserAlreadyExists if the email is taken.
	// The check and the insert are a single atomic step.
	AddUser(ctx context.Context, user domain.User) error

	GetUser(ctx context.Context, email domain.Email) (domain.User, error)

	// ValidateUser returns ErrUserNotFound or ErrInvalidCredentials on failure.
	ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error
}

// userRecord is the persisted shape of a domain.User.
type userRecord struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Requires2FA  bool   `json:"requires_2fa"`
}

func toRecord(u domain.User) userRecord {
	return userRecord{
		Email:        u.Email().String(),
		PasswordHash: u.PasswordHash(),
		Requires2FA:  u.Requires2FA(),
	}
}

func (r userRecord) toUser() (domain.User, error) {
	email, err := domain.ParseEmail(r.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("stored email %q: %w", r.Email, err)
	}
	return domain.NewUser(email, r.PasswordHash, r.Requires2FA), nil
}

// credentialChecker verifies passwords against stored hashes and spends a
// dummy verification on unknown users so both paths take similar time.
type credentialChecker struct {
	hasher    password.Hasher
	dummyHash string
}

func newCredentialChecker(hasher password.Hasher) (credentialChecker, error) {
	dummy, err := password.DummyHash(hasher)
	if err != nil {
		return credentialChecker{}, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return credentialChecker{hasher: hasher, dummyHash: dummy}, nil
}

func (c credentialChecker) check(user domain.User, found bool, pw domain.Password) error {
	if !found {
		_, _ = c.hasher.Verify(pw, c.dummyHash)
		return ErrUserNotFound
	}

	ok, err := c.hasher.Verify(pw, user.PasswordHash())
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
