package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"github.com/tendant/simple-auth/pkg/domain"
	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxInput is the longest input bcrypt accepts.
const bcryptMaxInput = 72

// BcryptHasher implements Hasher using bcrypt, which salts internally
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range; zero means bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash implements Hasher.Hash
func (h *BcryptHasher) Hash(password domain.Password) (string, error) {
	if password.Expose() == "" {
		return "", errors.New("password cannot be empty")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.Cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// Verify implements Hasher.Verify
func (h *BcryptHasher) Verify(password domain.Password, hashedPassword string) (bool, error) {
	if password.Expose() == "" || hashedPassword == "" {
		return false, errors.New("password and hashed password cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), bcryptInput(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil // Password doesn't match, but not an error
		}
		return false, err
	}

	return true, nil
}

// bcryptInput passes passwords within bcrypt's limit through unchanged and
// replaces longer ones with the base64 of their SHA-256 digest.
func bcryptInput(password domain.Password) []byte {
	raw := []byte(password.Expose())
	if len(raw) <= bcryptMaxInput {
		return raw
	}
	sum := sha256.Sum256(raw)
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
