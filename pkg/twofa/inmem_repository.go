package twofa

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

// InMemoryTwoFACodeStore keeps challenges in a map. Data is lost on restart.
type InMemoryTwoFACodeStore struct {
	mu    sync.RWMutex
	codes map[domain.Email]codeRecord
	ttl   time.Duration
	now   func() time.Time
}

// NewInMemoryTwoFACodeStore uses DefaultCodeTTL when ttl is zero.
func NewInMemoryTwoFACodeStore(ttl time.Duration) *InMemoryTwoFACodeStore {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &InMemoryTwoFACodeStore{
		codes: make(map[domain.Email]codeRecord),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *InMemoryTwoFACodeStore) AddCode(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[email] = newCodeRecord(email, id, code, s.now().Add(s.ttl))
	return nil
}

func (s *InMemoryTwoFACodeStore) GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	s.mu.RLock()
	record, ok := s.codes[email]
	s.mu.RUnlock()

	if !ok || record.expired(s.now()) {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, ErrCodeNotFound
	}
	return record.values()
}

func (s *InMemoryTwoFACodeStore) RemoveCode(ctx context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.codes[email]
	if !ok {
		return ErrCodeNotFound
	}
	delete(s.codes, email)
	if record.expired(s.now()) {
		return ErrCodeNotFound
	}
	return nil
}

func (s *InMemoryTwoFACodeStore) ConsumeCode(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.codes[email]
	if !ok {
		return ErrCodeNotFound
	}
	if record.expired(s.now()) {
		delete(s.codes, email)
		return ErrCodeNotFound
	}
	if !record.matches(id, code) {
		return ErrCodeMismatch
	}
	delete(s.codes, email)
	return nil
}
