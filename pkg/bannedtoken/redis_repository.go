package bannedtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tendant/simple-auth/pkg/domain"
)

const DefaultRedisKeyPrefix = "banned_token:"

var ErrBackend = errors.New("banned token store backend error")

// RedisBannedTokenStore stores one key per banned token, expiring with the token.
type RedisBannedTokenStore struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisBannedTokenStore(client redis.UniversalClient, prefix string) *RedisBannedTokenStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisBannedTokenStore{redis: client, prefix: prefix, now: time.Now}
}

func (s *RedisBannedTokenStore) key(token domain.SessionToken) string {
	return s.prefix + tokenKey(token)
}

// ttl returns 0 (no expiry) for a zero expiresAt and false when the token has already expired.
func (s *RedisBannedTokenStore) ttl(expiresAt time.Time) (time.Duration, bool) {
	if expiresAt.IsZero() {
		return 0, true
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

func (s *RedisBannedTokenStore) AddToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) error {
	ttl, live := s.ttl(expiresAt)
	if !live {
		return nil
	}
	if err := s.redis.Set(ctx, s.key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func (s *RedisBannedTokenStore) ContainsToken(ctx context.Context, token domain.SessionToken) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return n > 0, nil
}

// RevokeToken uses SET NX so concurrent revocations of one token have a single winner.
func (s *RedisBannedTokenStore) RevokeToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) (bool, error) {
	ttl, live := s.ttl(expiresAt)
	if !live {
		return true, nil
	}
	ok, err := s.redis.SetNX(ctx, s.key(token), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return ok, nil
}
