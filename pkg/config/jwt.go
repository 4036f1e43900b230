package config

import (
	"net/http"
	"time"

	"github.com/sosodev/duration"
)

// JWTConfig holds session token and cookie configuration
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer         string `env:"JWT_ISSUER" env-default:"simple-auth"`
	TokenTTL       string `env:"TOKEN_TTL" env-default:"PT10M"`
	CookieHttpOnly bool   `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure   bool   `env:"COOKIE_SECURE" env-default:"true"`
}

// ParseTokenTTL parses the session token lifetime
func (j JWTConfig) ParseTokenTTL() (time.Duration, error) {
	return parseDurationISO8601(j.TokenTTL)
}

// CookieSameSite returns the appropriate SameSite setting based on CookieSecure
func (j JWTConfig) CookieSameSite() http.SameSite {
	if j.CookieSecure {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// parseDurationISO8601 tries to parse duration as ISO8601 first, then Go duration
func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}
	return time.ParseDuration(s)
}
