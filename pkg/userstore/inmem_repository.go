package userstore

import (
	"context"
	"sync"

	"github.com/tendant/simple-auth/pkg/domain"
	"github.com/tendant/simple-auth/pkg/password"
)

// InMemoryUserStore is a UserStore backed by a map. Data is lost on restart.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[domain.Email]domain.User
	checker credentialChecker
}

func NewInMemoryUserStore(hasher password.Hasher) (*InMemoryUserStore, error) {
	checker, err := newCredentialChecker(hasher)
	if err != nil {
		return nil, err
	}
	return &InMemoryUserStore{
		users:   make(map[domain.Email]domain.User),
		checker: checker,
	}, nil
}

func (s *InMemoryUserStore) AddUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email()]; exists {
		return ErrUserAlreadyExists
	}
	s.users[user.Email()] = user
	return nil
}

func (s *InMemoryUserStore) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *InMemoryUserStore) ValidateUser(ctx context.Context, email domain.Email, pw domain.Password) error {
	s.mu.RLock()
	user, found := s.users[email]
	s.mu.RUnlock()

	return s.checker.check(user, found, pw)
}
