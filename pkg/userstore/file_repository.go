package userstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tendant/simple-auth/pkg/domain"
	"github.com/tendant/simple-auth/pkg/password"
)

const usersFileName = "users.json"

// FileUserStore implements UserStore using a JSON file in dataDir
type FileUserStore struct {
	dataDir string
	users   map[domain.Email]domain.User
	mutex   sync.RWMutex
	checker credentialChecker
}

// NewFileUserStore creates dataDir if needed and loads any existing users.
func NewFileUserStore(dataDir string, hasher password.Hasher) (*FileUserStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	checker, err := newCredentialChecker(hasher)
	if err != nil {
		return nil, err
	}

	store := &FileUserStore{
		dataDir: dataDir,
		users:   make(map[domain.Email]domain.User),
		checker: checker,
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return store, nil
}

func (s *FileUserStore) AddUser(ctx context.Context, user domain.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.users[user.Email()]; exists {
		return ErrUserAlreadyExists
	}

	s.users[user.Email()] = user

	if err := s.save(); err != nil {
		// Rollback
		delete(s.users, user.Email())
		return fmt.Errorf("failed to save: %w", err)
	}

	return nil
}

func (s *FileUserStore) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *FileUserStore) ValidateUser(ctx context.Context, email domain.Email, pw domain.Password) error {
	s.mutex.RLock()
	user, found := s.users[email]
	s.mutex.RUnlock()

	return s.checker.check(user, found, pw)
}

func (s *FileUserStore) load() error {
	filePath := filepath.Join(s.dataDir, usersFileName)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var records []userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	for _, record := range records {
		user, err := record.toUser()
		if err != nil {
			return err
		}
		s.users[user.Email()] = user
	}

	return nil
}

func (s *FileUserStore) save() error {
	records := make([]userRecord, 0, len(s.users))
	for _, user := range s.users {
		records = append(records, toRecord(user))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Email < records[j].Email })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temp file first
	tempFile := filepath.Join(s.dataDir, usersFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, filepath.Join(s.dataDir, usersFileName)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
