package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
)

// Config is the full auth service configuration, read from the environment
type Config struct {
	Env string `env:"APP_ENV" env-default:"development"`

	JWT      JWTConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	Password PasswordConfig

	// Server
	AppConfig app.AppConfig
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environment returns the deployment environment named by APP_ENV
func (c Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

// Validate checks backend names, durations and secrets
func (c Config) Validate() error {
	return Validate(
		func() ValidationErrors {
			return CollectErrors(
				RequireNonEmpty("JWT_SECRET", c.JWT.Secret),
				RequireNonEmpty("JWT_ISSUER", c.JWT.Issuer),
				requireDuration("TOKEN_TTL", c.JWT.TokenTTL),
			)
		},
		func() ValidationErrors {
			return CollectErrors(
				RequireOneOf("USER_STORE", c.Store.UserStore, []string{StoreMemory, StoreFile, StorePostgres}),
				RequireOneOf("BANNED_TOKEN_STORE", c.Store.BannedTokenStore, []string{StoreMemory, StoreRedis, StorePostgres}),
				RequireOneOf("TWO_FA_CODE_STORE", c.Store.TwoFACodeStore, []string{StoreMemory, StoreFile, StoreRedis}),
				requireDuration("TWO_FA_CODE_TTL", c.Store.TwoFACodeTTL),
				requireDuration("BANNED_TOKEN_CLEANUP_INTERVAL", c.Store.BannedTokenCleanupInterval),
			)
		},
		func() ValidationErrors {
			if c.Store.UserStore != StoreFile && c.Store.TwoFACodeStore != StoreFile {
				return nil
			}
			return CollectErrors(RequireNonEmpty("DATA_DIR", c.Store.DataDir))
		},
		func() ValidationErrors {
			if !c.Store.UsesRedis() {
				return nil
			}
			return CollectErrors(RequireNonEmpty("REDIS_ADDR", c.Redis.Addr))
		},
		func() ValidationErrors {
			errs := CollectErrors(RequireOneOf("EMAIL_CLIENT", c.Email.Client, []string{EmailClientSMTP, EmailClientMock}))
			if c.Email.Client == EmailClientMock && c.Environment() == Production {
				errs = append(errs, ValidationError{Field: "EMAIL_CLIENT", Message: "mock client cannot deliver 2FA codes in production"})
			}
			if c.Email.Client != EmailClientSMTP {
				return errs
			}
			return append(errs, CollectErrors(
				RequireNonEmpty("EMAIL_HOST", c.Email.Host),
				RequireValidPort("EMAIL_PORT", c.Email.Port),
				RequireValidEmail("EMAIL_FROM", c.Email.From),
				requireDuration("EMAIL_TIMEOUT", c.Email.Timeout),
			)...)
		},
		func() ValidationErrors {
			return CollectErrors(
				RequireOneOf("PASSWORD_HASH_ALGORITHM", c.Password.Algorithm, []string{"bcrypt", "argon2id"}),
			)
		},
	)
}

func requireDuration(field, value string) *ValidationError {
	d, err := parseDurationISO8601(value)
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid duration %q", value)}
	}
	return RequirePositiveDuration(field, d)
}
