package tokengenerator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-auth/pkg/domain"
)

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = 10 * time.Minute

// ErrInvalidToken covers malformed, badly signed, expired and banned tokens alike.
var ErrInvalidToken = errors.New("invalid token")

// Claims struct for JWT claims; Subject carries the user's email
type Claims struct {
	jwt.RegisteredClaims
}

// TokenGenerator signs and parses session tokens
type TokenGenerator interface {
	GenerateToken(subject domain.Email) (domain.SessionToken, *Claims, error)
	ParseToken(token domain.SessionToken) (*Claims, error)
}

// JwtTokenGenerator implements TokenGenerator with HS256
type JwtTokenGenerator struct {
	Secret string
	Issuer string
	TTL    time.Duration

	now func() time.Time
}

// NewJwtTokenGenerator creates a new JwtTokenGenerator; ttl <= 0 means DefaultTokenTTL
func NewJwtTokenGenerator(secret, issuer string, ttl time.Duration) *JwtTokenGenerator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JwtTokenGenerator{
		Secret: secret,
		Issuer: issuer,
		TTL:    ttl,
		now:    time.Now,
	}
}

// GenerateToken creates a signed token for subject expiring after TTL
func (g *JwtTokenGenerator) GenerateToken(subject domain.Email) (domain.SessionToken, *Claims, error) {
	now := g.now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(g.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    g.Issuer,
			Subject:   subject.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed sign JWT Claim string!", "err", err)
		return domain.SessionToken{}, nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return domain.NewSessionToken(ss), claims, nil
}

// ParseToken verifies signature, algorithm, expiry and issuer.
// Every failure is reported as ErrInvalidToken.
func (g *JwtTokenGenerator) ParseToken(token domain.SessionToken) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token.Expose(), claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(g.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(g.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid {
		slog.Debug("Rejected token", "err", err)
		return nil, ErrInvalidToken
	}
	if _, err := domain.ParseEmail(claims.Subject); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Email returns the subject as a domain.Email.
func (c *Claims) Email() domain.Email {
	email, _ := domain.ParseEmail(c.Subject)
	return email
}

// Expiry returns the token's expiry, zero if it has none.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
