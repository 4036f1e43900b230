package twofa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tendant/simple-auth/pkg/domain"
)

const (
	DefaultRedisKeyPrefix = "two_fa_code:"

	maxConsumeRetries = 4
)

// RedisTwoFACodeStore keeps one JSON value per email, expiring after ttl.
type RedisTwoFACodeStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisTwoFACodeStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisTwoFACodeStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &RedisTwoFACodeStore{redis: client, prefix: prefix, ttl: ttl}
}

func (s *RedisTwoFACodeStore) key(email domain.Email) string {
	return s.prefix + email.String()
}

func (s *RedisTwoFACodeStore) AddCode(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	encoded, err := json.Marshal(newCodeRecord(email, id, code, time.Now().Add(s.ttl)))
	if err != nil {
		return fmt.Errorf("failed to encode 2FA code: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(email), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func (s *RedisTwoFACodeStore) GetCode(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	data, err := s.redis.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.LoginAttemptID{}, domain.TwoFACode{}, ErrCodeNotFound
		}
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var record codeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, fmt.Errorf("failed to decode 2FA code: %w", err)
	}
	return record.values()
}

func (s *RedisTwoFACodeStore) RemoveCode(ctx context.Context, email domain.Email) error {
	n, err := s.redis.Del(ctx, s.key(email)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if n == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// ConsumeCode watches the key so an AddCode racing with it aborts the delete;
// the retry then compares against the new challenge.
func (s *RedisTwoFACodeStore) ConsumeCode(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	key := s.key(email)

	for i := 0; i < maxConsumeRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			var record codeRecord
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("failed to decode 2FA code: %w", err)
			}
			if !record.matches(id, code) {
				return ErrCodeMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.Nil):
			return ErrCodeNotFound
		case errors.Is(err, ErrCodeMismatch):
			return ErrCodeMismatch
		default:
			return fmt.Errorf("%w: %v", ErrBackend, err)
		}
	}

	return ErrCodeMismatch
}
