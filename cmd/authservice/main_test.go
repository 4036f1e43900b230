package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-auth/pkg/config"
	"github.com/tendant/simple-auth/pkg/notification"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewTwoFACodeStore(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		store, err := newTwoFACodeStore(defaultConfig(t), &backends{})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("BadTTL", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Store.TwoFACodeTTL = "soon"
		_, err := newTwoFACodeStore(cfg, &backends{})
		assert.Error(t, err)
	})
}

func TestNewBannedTokenStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Memory", func(t *testing.T) {
		store, err := newBannedTokenStore(ctx, defaultConfig(t), &backends{})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("BadCleanupInterval", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Store.BannedTokenStore = config.StorePostgres
		cfg.Store.BannedTokenCleanupInterval = "hourly"
		_, err := newBannedTokenStore(ctx, cfg, &backends{})
		assert.Error(t, err)
	})
}

func TestNewEmailClient(t *testing.T) {
	t.Run("SMTPByDefault", func(t *testing.T) {
		client, err := newEmailClient(defaultConfig(t))
		require.NoError(t, err)
		assert.IsType(t, &notification.SMTPEmailClient{}, client)
	})

	t.Run("Mock", func(t *testing.T) {
		cfg := defaultConfig(t)
		cfg.Email.Client = config.EmailClientMock
		client, err := newEmailClient(cfg)
		require.NoError(t, err)
		assert.IsType(t, &notification.MockEmailClient{}, client)
	})
}
