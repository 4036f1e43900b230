package bannedtoken

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-auth/pkg/domain"
)

// neverExpires stands in for a zero expiresAt in the NOT NULL expires_at column.
var neverExpires = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// PostgresBannedTokenStore implements BannedTokenStore on the banned_tokens table.
type PostgresBannedTokenStore struct {
	pool *pgxpool.Pool
}

func NewPostgresBannedTokenStore(pool *pgxpool.Pool) *PostgresBannedTokenStore {
	return &PostgresBannedTokenStore{pool: pool}
}

func (s *PostgresBannedTokenStore) AddToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) error {
	_, err := s.RevokeToken(ctx, token, expiresAt)
	return err
}

func (s *PostgresBannedTokenStore) ContainsToken(ctx context.Context, token domain.SessionToken) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM banned_tokens
			WHERE token_hash = $1 AND expires_at > NOW()
		)
	`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, tokenKey(token)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check banned token: %w", err)
	}
	return exists, nil
}

// RevokeToken inserts the token hash; an existing live row wins the conflict,
// an expired one is replaced.
func (s *PostgresBannedTokenStore) RevokeToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) (bool, error) {
	if expiresAt.IsZero() {
		expiresAt = neverExpires
	}
	query := `
		INSERT INTO banned_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO UPDATE
			SET expires_at = EXCLUDED.expires_at, banned_at = NOW()
			WHERE banned_tokens.expires_at <= NOW()
	`
	tag, err := s.pool.Exec(ctx, query, tokenKey(token), expiresAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to ban token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteExpired removes rows whose token has expired anyway.
func (s *PostgresBannedTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM banned_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
