package tokengenerator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-auth/pkg/bannedtoken"
	"github.com/tendant/simple-auth/pkg/domain"
)

const testSecret = "test-secret"

var testEmail = domain.MustParseEmail("user@example.com")

func TestJwtTokenGenerator(t *testing.T) {
	g := NewJwtTokenGenerator(testSecret, "simple-auth", 0)
	assert.Equal(t, DefaultTokenTTL, g.TTL)

	token, claims, err := g.GenerateToken(testEmail)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Expose())
	assert.Equal(t, "user@example.com", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.Expiry(), 5*time.Second)

	parsed, err := g.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, testEmail, parsed.Email())
	assert.Equal(t, claims.ID, parsed.ID)

	t.Run("UniquePerIssue", func(t *testing.T) {
		other, _, err := g.GenerateToken(testEmail)
		require.NoError(t, err)
		assert.NotEqual(t, token.Expose(), other.Expose())
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := g.ParseToken(domain.NewSessionToken("not-a-jwt"))
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = g.ParseToken(domain.NewSessionToken(""))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewJwtTokenGenerator("another-secret", "simple-auth", 0)
		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other := NewJwtTokenGenerator(testSecret, "someone-else", 0)
		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		short := NewJwtTokenGenerator(testSecret, "simple-auth", time.Minute)
		now := time.Now()
		short.now = func() time.Time { return now }

		expiring, _, err := short.GenerateToken(testEmail)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = short.ParseToken(expiring)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "user@example.com",
			Issuer:    "simple-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = g.ParseToken(domain.NewSessionToken(raw))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("SubjectNotEmail", func(t *testing.T) {
		signed := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "not-an-email",
			Issuer:    "simple-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		raw, err := signed.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = g.ParseToken(domain.NewSessionToken(raw))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

type failingBannedTokenStore struct {
	bannedtoken.BannedTokenStore
}

func (failingBannedTokenStore) ContainsToken(ctx context.Context, token domain.SessionToken) (bool, error) {
	return false, errors.New("store down")
}

func (failingBannedTokenStore) RevokeToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) (bool, error) {
	return false, errors.New("store down")
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	banned := bannedtoken.NewInMemoryBannedTokenStore()
	service := NewTokenService(NewJwtTokenGenerator(testSecret, "simple-auth", 0), banned)

	t.Run("IssueAndValidate", func(t *testing.T) {
		token, _, err := service.Issue(testEmail)
		require.NoError(t, err)

		claims, err := service.Validate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, testEmail, claims.Email())
	})

	t.Run("BannedTokenRejected", func(t *testing.T) {
		token, claims, err := service.Issue(testEmail)
		require.NoError(t, err)
		require.NoError(t, banned.AddToken(ctx, token, claims.Expiry()))

		_, err = service.Validate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ValidateAndRevoke", func(t *testing.T) {
		token, _, err := service.Issue(testEmail)
		require.NoError(t, err)

		_, err = service.ValidateAndRevoke(ctx, token)
		require.NoError(t, err)

		_, err = service.Validate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = service.ValidateAndRevoke(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ConcurrentRevoke", func(t *testing.T) {
		token, _, err := service.Issue(testEmail)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var ok atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := service.ValidateAndRevoke(ctx, token); err == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok.Load())
	})

	t.Run("InvalidTokenNeverBanned", func(t *testing.T) {
		before := banned.Len()
		_, err := service.ValidateAndRevoke(ctx, domain.NewSessionToken("garbage"))
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Equal(t, before, banned.Len())
	})

	t.Run("StoreFailure", func(t *testing.T) {
		broken := NewTokenService(NewJwtTokenGenerator(testSecret, "simple-auth", 0), failingBannedTokenStore{})
		token, _, err := broken.Issue(testEmail)
		require.NoError(t, err)

		_, err = broken.Validate(ctx, token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidToken)

		_, err = broken.ValidateAndRevoke(ctx, token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCookieSetter(t *testing.T) {
	setter := NewCookieSetter(true, true, http.SameSiteStrictMode)
	expire := time.Now().Add(time.Hour)

	rec := httptest.NewRecorder()
	setter.SetCookie(rec, domain.NewSessionToken("abc.def.ghi"), expire)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "abc.def.ghi", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	setter.ClearCookie(rec)

	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
