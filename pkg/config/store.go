package config

import (
	"time"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// StoreConfig picks the backend of each store
type StoreConfig struct {
	UserStore        string `env:"USER_STORE" env-default:"memory"`
	BannedTokenStore string `env:"BANNED_TOKEN_STORE" env-default:"memory"`
	TwoFACodeStore   string `env:"TWO_FA_CODE_STORE" env-default:"memory"`
	DataDir          string `env:"DATA_DIR" env-default:"./data"`
	TwoFACodeTTL     string `env:"TWO_FA_CODE_TTL" env-default:"PT10M"`
	// How often expired rows are purged from the Postgres banned token table
	BannedTokenCleanupInterval string `env:"BANNED_TOKEN_CLEANUP_INTERVAL" env-default:"PT1H"`
}

// ParseTwoFACodeTTL parses the 2FA code lifetime
func (s StoreConfig) ParseTwoFACodeTTL() (time.Duration, error) {
	return parseDurationISO8601(s.TwoFACodeTTL)
}

// ParseBannedTokenCleanupInterval parses the purge interval
func (s StoreConfig) ParseBannedTokenCleanupInterval() (time.Duration, error) {
	return parseDurationISO8601(s.BannedTokenCleanupInterval)
}

// UsesPostgres reports whether any store is backed by Postgres
func (s StoreConfig) UsesPostgres() bool {
	return s.UserStore == StorePostgres || s.BannedTokenStore == StorePostgres
}

// UsesRedis reports whether any store is backed by Redis
func (s StoreConfig) UsesRedis() bool {
	return s.BannedTokenStore == StoreRedis || s.TwoFACodeStore == StoreRedis
}
