package bannedtoken

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

const pruneInterval = time.Minute

// InMemoryBannedTokenStore keeps banned token hashes in a map with their expiry.
type InMemoryBannedTokenStore struct {
	mu        sync.RWMutex
	tokens    map[string]time.Time
	lastPrune time.Time
	now       func() time.Time
}

type InMemoryOption func(*InMemoryBannedTokenStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryBannedTokenStore) {
		s.now = now
	}
}

func NewInMemoryBannedTokenStore(opts ...InMemoryOption) *InMemoryBannedTokenStore {
	s := &InMemoryBannedTokenStore{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryBannedTokenStore) AddToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) error {
	_, err := s.RevokeToken(ctx, token, expiresAt)
	return err
}

func (s *InMemoryBannedTokenStore) ContainsToken(ctx context.Context, token domain.SessionToken) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, ok := s.tokens[tokenKey(token)]
	return ok && s.live(expiresAt), nil
}

func (s *InMemoryBannedTokenStore) RevokeToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	key := tokenKey(token)
	if existing, ok := s.tokens[key]; ok && s.live(existing) {
		return false, nil
	}
	s.tokens[key] = expiresAt
	return true, nil
}

// Len returns the number of entries, expired ones included until pruned.
func (s *InMemoryBannedTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

func (s *InMemoryBannedTokenStore) live(expiresAt time.Time) bool {
	return expiresAt.IsZero() || s.now().Before(expiresAt)
}

func (s *InMemoryBannedTokenStore) pruneLocked() {
	now := s.now()
	if now.Sub(s.lastPrune) < pruneInterval {
		return
	}
	s.lastPrune = now

	for key, expiresAt := range s.tokens {
		if !s.live(expiresAt) {
			delete(s.tokens, key)
		}
	}
}
