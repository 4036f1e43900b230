package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-auth/pkg/password"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.UserStore)
	assert.Equal(t, StoreMemory, cfg.Store.BannedTokenStore)
	assert.Equal(t, StoreMemory, cfg.Store.TwoFACodeStore)
	assert.Equal(t, EmailClientSMTP, cfg.Email.Client)
	assert.Equal(t, Development, cfg.Environment())

	ttl, err := cfg.JWT.ParseTokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	codeTTL, err := cfg.Store.ParseTwoFACodeTTL()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, codeTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("USER_STORE", "postgres")
	t.Setenv("BANNED_TOKEN_STORE", "redis")
	t.Setenv("TWO_FA_CODE_STORE", "file")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("AUTH_PG_PORT", "5433")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Store.UsesPostgres())
	assert.True(t, cfg.Store.UsesRedis())
	assert.Equal(t, uint16(5433), cfg.Database.ToDbConfig().Port)
	assert.Equal(t, 2, cfg.Redis.ToRedisOptions().DB)

	ttl, err := cfg.JWT.ParseTokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("UnknownStore", func(t *testing.T) {
		cfg := valid(t)
		cfg.Store.TwoFACodeStore = "postgres"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TWO_FA_CODE_STORE")
	})

	t.Run("BadDuration", func(t *testing.T) {
		cfg := valid(t)
		cfg.JWT.TokenTTL = "soon"
		cfg.Store.TwoFACodeTTL = "-1m"

		err := cfg.Validate()
		require.Error(t, err)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Len(t, errs, 2)
	})

	t.Run("SMTPRequiresSender", func(t *testing.T) {
		cfg := valid(t)
		cfg.Email.Client = EmailClientSMTP
		cfg.Email.From = "not-an-address"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EMAIL_FROM")
	})

	t.Run("MockIgnoresSMTPFields", func(t *testing.T) {
		cfg := valid(t)
		cfg.Email.Client = EmailClientMock
		cfg.Email.From = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("MockRejectedInProduction", func(t *testing.T) {
		cfg := valid(t)
		cfg.Env = "production"
		assert.NoError(t, cfg.Validate())

		cfg.Email.Client = EmailClientMock
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EMAIL_CLIENT")
	})
}

func TestParseEnvironment(t *testing.T) {
	for input, want := range map[string]Environment{
		"prod":       Production,
		"production": Production,
		"stage":      Staging,
		"testing":    Test,
		"":           Development,
		"local":      Development,
	} {
		assert.Equal(t, want, ParseEnvironment(input), input)
	}
}

func TestParseDurationISO8601(t *testing.T) {
	for input, want := range map[string]time.Duration{
		"PT10M": 10 * time.Minute,
		"PT1H":  time.Hour,
		"90s":   90 * time.Second,
	} {
		got, err := parseDurationISO8601(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := parseDurationISO8601("ten minutes")
	assert.Error(t, err)
}

func TestCookieSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, JWTConfig{CookieSecure: true}.CookieSameSite())
	assert.Equal(t, http.SameSiteLaxMode, JWTConfig{CookieSecure: false}.CookieSameSite())
}

func TestPasswordConfig(t *testing.T) {
	cfg := PasswordConfig{
		Algorithm: password.AlgorithmArgon2id,
		Argon2: Argon2Config{
			Memory:      8 * 1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	}

	params, err := cfg.Argon2Params()
	require.NoError(t, err)
	assert.Equal(t, password.Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}, params)

	hasher, err := cfg.NewHasher()
	require.NoError(t, err)
	assert.NotNil(t, hasher)
}

func TestEmailConfigToSMTPConfig(t *testing.T) {
	smtp, err := EmailConfig{Host: "mail.example.com", Port: 587, From: "auth@example.com", Timeout: "PT5S"}.ToSMTPConfig()
	require.NoError(t, err)
	assert.Equal(t, 587, smtp.Port)
	assert.Equal(t, 5*time.Second, smtp.Timeout)

	_, err = EmailConfig{Timeout: "later"}.ToSMTPConfig()
	assert.Error(t, err)
}
