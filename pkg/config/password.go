package config

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/tendant/simple-auth/pkg/password"
)

// PasswordConfig selects the hash written for new passwords
type PasswordConfig struct {
	Algorithm  string `env:"PASSWORD_HASH_ALGORITHM" env-default:"bcrypt"`
	BcryptCost int    `env:"PASSWORD_BCRYPT_COST" env-default:"10"`
	Argon2     Argon2Config
}

// Argon2Config mirrors password.Argon2Params; zero values fall back to the defaults
type Argon2Config struct {
	Memory      uint32 `env:"PASSWORD_ARGON2_MEMORY_KIB" env-default:"65536"`
	Iterations  uint32 `env:"PASSWORD_ARGON2_ITERATIONS" env-default:"3"`
	Parallelism uint8  `env:"PASSWORD_ARGON2_PARALLELISM" env-default:"2"`
	SaltLength  uint32 `env:"PASSWORD_ARGON2_SALT_LENGTH" env-default:"16"`
	KeyLength   uint32 `env:"PASSWORD_ARGON2_KEY_LENGTH" env-default:"32"`
}

// Argon2Params converts the config to password.Argon2Params
func (c PasswordConfig) Argon2Params() (password.Argon2Params, error) {
	var params password.Argon2Params
	if err := copier.Copy(&params, &c.Argon2); err != nil {
		return password.Argon2Params{}, fmt.Errorf("failed to copy argon2 params: %w", err)
	}
	return params, nil
}

// NewHasher builds the configured password hasher
func (c PasswordConfig) NewHasher() (password.Hasher, error) {
	params, err := c.Argon2Params()
	if err != nil {
		return nil, err
	}
	return password.NewHasher(c.Algorithm, c.BcryptCost, params)
}
