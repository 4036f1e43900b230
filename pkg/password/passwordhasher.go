package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tendant/simple-auth/pkg/domain"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var ErrUnsupportedHash = errors.New("unsupported password hash")

// Hasher defines the interface for password hashing implementations
type Hasher interface {
	// Hash returns an encoded, salted hash of password
	Hash(password domain.Password) (string, error)

	// Verify checks if the provided password matches the stored hash.
	// A mismatch is (false, nil); an error means the hash could not be checked.
	Verify(password domain.Password, encodedHash string) (bool, error)
}

// NewHasher returns a Hasher that hashes new passwords with algorithm and
// verifies hashes produced by any supported algorithm.
func NewHasher(algorithm string, bcryptCost int, params Argon2Params) (Hasher, error) {
	bcryptHasher := NewBcryptHasher(bcryptCost)
	argon2Hasher := NewArgon2Hasher(params)

	var primary Hasher
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		primary = bcryptHasher
	case AlgorithmArgon2id, "argon2":
		primary = argon2Hasher
	default:
		return nil, fmt.Errorf("unknown password hash algorithm %q", algorithm)
	}

	return &multiHasher{
		primary: primary,
		bcrypt:  bcryptHasher,
		argon2:  argon2Hasher,
	}, nil
}

type multiHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (h *multiHasher) Hash(password domain.Password) (string, error) {
	return h.primary.Hash(password)
}

func (h *multiHasher) Verify(password domain.Password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return h.argon2.Verify(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2a$"), strings.HasPrefix(encodedHash, "$2b$"), strings.HasPrefix(encodedHash, "$2y$"):
		return h.bcrypt.Verify(password, encodedHash)
	default:
		return false, ErrUnsupportedHash
	}
}

// DummyHash returns a hash of a fixed placeholder made with h. Verifying
// against it lets a caller spend the same time on unknown users as on real ones.
func DummyHash(h Hasher) (string, error) {
	p, err := domain.ParsePassword("placeholder-password")
	if err != nil {
		return "", err
	}
	return h.Hash(p)
}
