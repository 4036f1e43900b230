package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-auth/pkg/domain"
	"github.com/tendant/simple-auth/pkg/password"
)

// PostgresUserStore implements UserStore on the users table.
type PostgresUserStore struct {
	pool    *pgxpool.Pool
	checker credentialChecker
}

func NewPostgresUserStore(pool *pgxpool.Pool, hasher password.Hasher) (*PostgresUserStore, error) {
	checker, err := newCredentialChecker(hasher)
	if err != nil {
		return nil, err
	}
	return &PostgresUserStore{pool: pool, checker: checker}, nil
}

// AddUser relies on the primary key: a conflicting insert affects no rows.
func (s *PostgresUserStore) AddUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, requires_2fa)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`
	tag, err := s.pool.Exec(ctx, query, user.Email().String(), user.PasswordHash(), user.Requires2FA())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}

func (s *PostgresUserStore) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	query := `
		SELECT email, password_hash, requires_2fa
		FROM users
		WHERE email = $1
	`
	var record userRecord
	err := s.pool.QueryRow(ctx, query, email.String()).Scan(
		&record.Email,
		&record.PasswordHash,
		&record.Requires2FA,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return record.toUser()
}

func (s *PostgresUserStore) ValidateUser(ctx context.Context, email domain.Email, pw domain.Password) error {
	user, err := s.GetUser(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return s.checker.check(domain.User{}, false, pw)
	case err != nil:
		return err
	}
	return s.checker.check(user, true, pw)
}
