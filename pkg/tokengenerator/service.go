package tokengenerator

import (
	"context"
	"fmt"

	"github.com/tendant/simple-auth/pkg/bannedtoken"
	"github.com/tendant/simple-auth/pkg/domain"
)

// TokenService issues session tokens and validates them against the denylist.
type TokenService struct {
	generator    TokenGenerator
	bannedTokens bannedtoken.BannedTokenStore
}

func NewTokenService(generator TokenGenerator, bannedTokens bannedtoken.BannedTokenStore) *TokenService {
	return &TokenService{
		generator:    generator,
		bannedTokens: bannedTokens,
	}
}

// Issue signs a new session token for email.
func (s *TokenService) Issue(email domain.Email) (domain.SessionToken, *Claims, error) {
	return s.generator.GenerateToken(email)
}

// Validate checks the signature and expiry locally, then the denylist.
// A rejected token yields ErrInvalidToken; a failing store yields a wrapped store error.
func (s *TokenService) Validate(ctx context.Context, token domain.SessionToken) (*Claims, error) {
	claims, err := s.generator.ParseToken(token)
	if err != nil {
		return nil, err
	}

	banned, err := s.bannedTokens.ContainsToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check banned tokens: %w", err)
	}
	if banned {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAndRevoke checks the token locally and bans it in one store
// operation. Of two concurrent calls with the same token only one succeeds;
// the other sees ErrInvalidToken, as does any Validate after the ban.
func (s *TokenService) ValidateAndRevoke(ctx context.Context, token domain.SessionToken) (*Claims, error) {
	claims, err := s.generator.ParseToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.bannedTokens.RevokeToken(ctx, token, claims.Expiry())
	if err != nil {
		return nil, fmt.Errorf("failed to ban token: %w", err)
	}
	if !revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
