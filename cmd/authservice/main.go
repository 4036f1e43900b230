package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-auth/pkg/auth"
	"github.com/tendant/simple-auth/pkg/auth/api"
	"github.com/tendant/simple-auth/pkg/bannedtoken"
	"github.com/tendant/simple-auth/pkg/config"
	"github.com/tendant/simple-auth/pkg/migrations"
	"github.com/tendant/simple-auth/pkg/notification"
	"github.com/tendant/simple-auth/pkg/password"
	"github.com/tendant/simple-auth/pkg/tokengenerator"
	"github.com/tendant/simple-auth/pkg/twofa"
	"github.com/tendant/simple-auth/pkg/userstore"
)

// backends holds the shared connections, opened only when a store needs them
type backends struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	b, err := openBackends(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open backends", "error", err)
		os.Exit(1)
	}
	defer b.close()

	hasher, err := cfg.Password.NewHasher()
	if err != nil {
		slog.Error("Failed to create password hasher", "error", err)
		os.Exit(1)
	}

	users, err := newUserStore(cfg, b, hasher)
	if err != nil {
		slog.Error("Failed to create user store", "store", cfg.Store.UserStore, "error", err)
		os.Exit(1)
	}
	bannedTokens, err := newBannedTokenStore(ctx, cfg, b)
	if err != nil {
		slog.Error("Failed to create banned token store", "store", cfg.Store.BannedTokenStore, "error", err)
		os.Exit(1)
	}
	codes, err := newTwoFACodeStore(cfg, b)
	if err != nil {
		slog.Error("Failed to create 2FA code store", "store", cfg.Store.TwoFACodeStore, "error", err)
		os.Exit(1)
	}
	emailClient, err := newEmailClient(cfg)
	if err != nil {
		slog.Error("Failed to create email client", "client", cfg.Email.Client, "error", err)
		os.Exit(1)
	}

	tokenTTL, err := cfg.JWT.ParseTokenTTL()
	if err != nil {
		slog.Error("Failed to parse token TTL", "value", cfg.JWT.TokenTTL, "error", err)
		os.Exit(1)
	}
	tokens := tokengenerator.NewTokenService(
		tokengenerator.NewJwtTokenGenerator(cfg.JWT.Secret, cfg.JWT.Issuer, tokenTTL),
		bannedTokens,
	)
	authService := auth.NewAuthService(users, codes, tokens, emailClient, hasher)
	cookieSetter := tokengenerator.NewCookieSetter(cfg.JWT.CookieHttpOnly, cfg.JWT.CookieSecure, cfg.JWT.CookieSameSite())
	handle := api.NewHandle(authService, cookieSetter)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	server.R.Mount("/", handle.Routes())

	slog.Info("Auth service ready",
		"userStore", cfg.Store.UserStore,
		"bannedTokenStore", cfg.Store.BannedTokenStore,
		"twoFACodeStore", cfg.Store.TwoFACodeStore,
		"emailClient", cfg.Email.Client,
	)
	server.Run()
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	if cfg.Store.UsesPostgres() {
		pool, err := dbutils.NewDbPool(ctx, cfg.Database.ToDbConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b.pool = pool
		if err := migrations.Up(ctx, pool); err != nil {
			b.close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Database connected", "host", cfg.Database.Host, "database", cfg.Database.Database)
	}

	if cfg.Store.UsesRedis() {
		client := redis.NewClient(cfg.Redis.ToRedisOptions())
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			b.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.redis = client
		slog.Info("Redis connected", "addr", cfg.Redis.Addr)
	}

	return b, nil
}

func (b *backends) close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		b.redis.Close()
	}
}

func newUserStore(cfg config.Config, b *backends, hasher password.Hasher) (userstore.UserStore, error) {
	switch cfg.Store.UserStore {
	case config.StoreFile:
		return userstore.NewFileUserStore(cfg.Store.DataDir, hasher)
	case config.StorePostgres:
		return userstore.NewPostgresUserStore(b.pool, hasher)
	default:
		return userstore.NewInMemoryUserStore(hasher)
	}
}

func newBannedTokenStore(ctx context.Context, cfg config.Config, b *backends) (bannedtoken.BannedTokenStore, error) {
	switch cfg.Store.BannedTokenStore {
	case config.StoreRedis:
		return bannedtoken.NewRedisBannedTokenStore(b.redis, bannedtoken.DefaultRedisKeyPrefix), nil
	case config.StorePostgres:
		interval, err := cfg.Store.ParseBannedTokenCleanupInterval()
		if err != nil {
			return nil, fmt.Errorf("failed to parse cleanup interval: %w", err)
		}
		store := bannedtoken.NewPostgresBannedTokenStore(b.pool)
		go purgeExpiredTokens(ctx, store, interval)
		return store, nil
	default:
		return bannedtoken.NewInMemoryBannedTokenStore(), nil
	}
}

// purgeExpiredTokens deletes banned tokens that have expired on their own
func purgeExpiredTokens(ctx context.Context, store *bannedtoken.PostgresBannedTokenStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				slog.Error("Failed to purge expired banned tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Purged expired banned tokens", "count", n)
			}
		}
	}
}

func newTwoFACodeStore(cfg config.Config, b *backends) (twofa.TwoFACodeStore, error) {
	ttl, err := cfg.Store.ParseTwoFACodeTTL()
	if err != nil {
		return nil, fmt.Errorf("failed to parse 2FA code TTL: %w", err)
	}
	switch cfg.Store.TwoFACodeStore {
	case config.StoreFile:
		return twofa.NewFileTwoFACodeStore(cfg.Store.DataDir, ttl)
	case config.StoreRedis:
		return twofa.NewRedisTwoFACodeStore(b.redis, twofa.DefaultRedisKeyPrefix, ttl), nil
	default:
		return twofa.NewInMemoryTwoFACodeStore(ttl), nil
	}
}

func newEmailClient(cfg config.Config) (notification.EmailClient, error) {
	if cfg.Email.Client != config.EmailClientSMTP {
		slog.Warn("Using mock email client; 2FA codes are not delivered")
		return notification.NewMockEmailClient(), nil
	}
	smtpConfig, err := cfg.Email.ToSMTPConfig()
	if err != nil {
		return nil, err
	}
	return notification.NewSMTPEmailClient(smtpConfig)
}
