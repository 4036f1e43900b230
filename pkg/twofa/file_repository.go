package twofa

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

const codesFileName = "twofa_codes.json"

// FileTwoFACodeStore implements TwoFACodeStore using a JSON file in dataDir
type FileTwoFACodeStore struct {
	dataDir string
	codes   map[string]codeRecord // keyed by email
	mutex   sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
}

// NewFileTwoFACodeStore creates dataDir if needed and loads pending challenges.
func NewFileTwoFACodeStore(dataDir string, ttl time.Duration) (*FileTwoFACodeStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	store := &FileTwoFACodeStore{
		dataDir: dataDir,
		codes:   make(map[string]codeRecord),
		ttl:     ttl,
		now:     time.Now,
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return store, nil
}

func (s *FileTwoFACodeStore) AddCode(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	previous, hadPrevious := s.codes[email.String()]
	s.codes[email.String()] = newCodeRecord(email, id, code, s.now().Add(s.ttl))

	if err := s.save(); err != nil {
		// Rollback
		if hadPrevious {
			s.codes[email.String()] = previous
		} else {
			delete(s.codes, email.String())
		}
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (s *FileTwoFACodeStore) GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	s.mutex.RLock()
	record, ok := s.codes[email.String()]
	s.mutex.RUnlock()

	if !ok || record.expired(s.now()) {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, ErrCodeNotFound
	}
	return record.values()
}

func (s *FileTwoFACodeStore) RemoveCode(ctx context.Context, email domain.Email) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, ok := s.codes[email.String()]
	if !ok {
		return ErrCodeNotFound
	}
	if err := s.deleteLocked(email.String(), record); err != nil {
		return err
	}
	if record.expired(s.now()) {
		return ErrCodeNotFound
	}
	return nil
}

func (s *FileTwoFACodeStore) ConsumeCode(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, ok := s.codes[email.String()]
	if !ok {
		return ErrCodeNotFound
	}
	if record.expired(s.now()) {
		if err := s.deleteLocked(email.String(), record); err != nil {
			return err
		}
		return ErrCodeNotFound
	}
	if !record.matches(id, code) {
		return ErrCodeMismatch
	}
	return s.deleteLocked(email.String(), record)
}

func (s *FileTwoFACodeStore) deleteLocked(key string, record codeRecord) error {
	delete(s.codes, key)
	if err := s.save(); err != nil {
		// Rollback
		s.codes[key] = record
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (s *FileTwoFACodeStore) load() error {
	filePath := filepath.Join(s.dataDir, codesFileName)

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

	var records []codeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	now := s.now()
	for _, record := range records {
		if record.expired(now) {
			continue
		}
		s.codes[record.Email] = record
	}

	return nil
}

func (s *FileTwoFACodeStore) save() error {
	records := make([]codeRecord, 0, len(s.codes))
	for _, record := range s.codes {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Email < records[j].Email })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(s.dataDir, codesFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, filepath.Join(s.dataDir, codesFileName)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
