package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-auth/pkg/domain"
	apperrors "github.com/tendant/simple-auth/pkg/errors"
	"github.com/tendant/simple-auth/pkg/notification"
	"github.com/tendant/simple-auth/pkg/password"
	"github.com/tendant/simple-auth/pkg/tokengenerator"
	"github.com/tendant/simple-auth/pkg/twofa"
	"github.com/tendant/simple-auth/pkg/userstore"
)

// AuthService orchestrates the authentication flows over injected stores.
type AuthService struct {
	users       userstore.UserStore
	codes       twofa.TwoFACodeStore
	tokens      *tokengenerator.TokenService
	emailClient notification.EmailClient
	hasher      password.Hasher

	newCode           func() (domain.TwoFACode, error)
	newLoginAttemptID func() domain.LoginAttemptID
}

// Option configures an AuthService
type Option func(*AuthService)

// WithCodeGenerator replaces the random 2FA code source
func WithCodeGenerator(fn func() (domain.TwoFACode, error)) Option {
	return func(s *AuthService) {
		s.newCode = fn
	}
}

// WithLoginAttemptIDGenerator replaces the random attempt id source
func WithLoginAttemptIDGenerator(fn func() domain.LoginAttemptID) Option {
	return func(s *AuthService) {
		s.newLoginAttemptID = fn
	}
}

func NewAuthService(
	users userstore.UserStore,
	codes twofa.TwoFACodeStore,
	tokens *tokengenerator.TokenService,
	emailClient notification.EmailClient,
	hasher password.Hasher,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		users:             users,
		codes:             codes,
		tokens:            tokens,
		emailClient:       emailClient,
		hasher:            hasher,
		newCode:           domain.NewTwoFACode,
		newLoginAttemptID: domain.NewLoginAttemptID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates a user. Invalid email or password gives ErrInvalidCredentials,
// a taken email ErrUserAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		return ErrInvalidCredentials
	}
	pw, err := domain.ParsePassword(req.Password)
	if err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	if err := s.users.AddUser(ctx, domain.NewUser(email, hash, req.Requires2FA)); err != nil {
		if errors.Is(err, userstore.ErrUserAlreadyExists) {
			return ErrUserAlreadyExists
		}
		slog.Error("Failed to add user", "email", email, "error", err)
		return apperrors.Internal(fmt.Errorf("failed to add user: %w", err))
	}

	slog.Info("User created", "email", email, "requires2FA", req.Requires2FA)
	return nil
}

// Login checks credentials and either issues a session or starts a 2FA challenge.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	pw, err := domain.ParsePassword(req.Password)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.authenticate(ctx, email, pw)
	if err != nil {
		return LoginResult{}, err
	}

	if !user.Requires2FA() {
		session, err := s.issueSession(email)
		if err != nil {
			return LoginResult{}, err
		}
		slog.Info("User logged in", "email", email)
		return LoginResult{Session: session}, nil
	}

	loginAttemptID, err := s.startTwoFA(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{RequiresTwoFA: true, LoginAttemptID: loginAttemptID}, nil
}

func (s *AuthService) authenticate(ctx context.Context, email domain.Email, pw domain.Password) (domain.User, error) {
	if err := s.users.ValidateUser(ctx, email, pw); err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) || errors.Is(err, userstore.ErrInvalidCredentials) {
			slog.Info("Login rejected", "email", email, "reason", err)
			return domain.User{}, ErrIncorrectCredentials
		}
		slog.Error("Failed to validate user", "email", email, "error", err)
		return domain.User{}, apperrors.Internal(fmt.Errorf("failed to validate user: %w", err))
	}

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return domain.User{}, ErrIncorrectCredentials
		}
		slog.Error("Failed to get user", "email", email, "error", err)
		return domain.User{}, apperrors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// startTwoFA stores a new challenge, replacing any pending one, then mails the
// code. A failed send fails the login; the stored challenge is left in place
// and is superseded by the next attempt.
func (s *AuthService) startTwoFA(ctx context.Context, email domain.Email) (domain.LoginAttemptID, error) {
	loginAttemptID := s.newLoginAttemptID()
	code, err := s.newCode()
	if err != nil {
		slog.Error("Failed to generate 2FA code", "error", err)
		return domain.LoginAttemptID{}, apperrors.Internal(err)
	}

	if err := s.codes.AddCode(ctx, email, loginAttemptID, code); err != nil {
		slog.Error("Failed to store 2FA code", "email", email, "error", err)
		return domain.LoginAttemptID{}, apperrors.Internal(fmt.Errorf("failed to store 2FA code: %w", err))
	}

	body := fmt.Sprintf(twoFAEmailBody, code.Expose())
	if err := s.emailClient.SendEmail(ctx, email, TwoFAEmailSubject, body); err != nil {
		slog.Error("Failed to send 2FA code", "email", email, "error", err)
		return domain.LoginAttemptID{}, apperrors.Internal(fmt.Errorf("failed to send 2FA code: %w", err))
	}

	slog.Info("2FA code sent", "email", email, "loginAttemptId", loginAttemptID)
	return loginAttemptID, nil
}

// VerifyTwoFA consumes the pending challenge for the email and issues a
// session. Wrong, superseded and already used codes all give ErrIncorrectCredentials.
func (s *AuthService) VerifyTwoFA(ctx context.Context, req VerifyTwoFARequest) (Session, error) {
	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	loginAttemptID, err := domain.ParseLoginAttemptID(req.LoginAttemptID)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	code, err := domain.ParseTwoFACode(req.TwoFACode)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}

	if err := s.codes.ConsumeCode(ctx, email, loginAttemptID, code); err != nil {
		if errors.Is(err, twofa.ErrCodeNotFound) || errors.Is(err, twofa.ErrCodeMismatch) {
			slog.Info("2FA verification rejected", "email", email, "reason", err)
			return Session{}, ErrIncorrectCredentials
		}
		slog.Error("Failed to consume 2FA code", "email", email, "error", err)
		return Session{}, apperrors.Internal(fmt.Errorf("failed to consume 2FA code: %w", err))
	}

	session, err := s.issueSession(email)
	if err != nil {
		return Session{}, err
	}
	slog.Info("User logged in with 2FA", "email", email)
	return session, nil
}

// Logout validates the token and bans it in one step.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return ErrMissingToken
	}

	claims, err := s.tokens.ValidateAndRevoke(ctx, domain.NewSessionToken(rawToken))
	if err != nil {
		return s.tokenError(err)
	}

	slog.Info("User logged out", "email", claims.Subject)
	return nil
}

// VerifyToken reports whether rawToken is a live session token.
func (s *AuthService) VerifyToken(ctx context.Context, rawToken string) (*tokengenerator.Claims, error) {
	claims, err := s.tokens.Validate(ctx, domain.NewSessionToken(rawToken))
	if err != nil {
		return nil, s.tokenError(err)
	}
	return claims, nil
}

func (s *AuthService) tokenError(err error) error {
	if errors.Is(err, tokengenerator.ErrInvalidToken) {
		return ErrInvalidToken
	}
	slog.Error("Failed to check token", "error", err)
	return apperrors.Internal(err)
}

func (s *AuthService) issueSession(email domain.Email) (Session, error) {
	token, claims, err := s.tokens.Issue(email)
	if err != nil {
		slog.Error("Failed to issue token", "email", email, "error", err)
		return Session{}, apperrors.Internal(err)
	}
	return Session{Token: token, ExpiresAt: claims.Expiry()}, nil
}
