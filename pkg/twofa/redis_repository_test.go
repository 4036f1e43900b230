package twofa

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-auth/pkg/domain"
)

func newRedisTestStore(t *testing.T) (*RedisTwoFACodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewRedisTwoFACodeStore(rdb, "", 0), mr
}

func TestRedisTwoFACodeStore(t *testing.T) {
	store, mr := newRedisTestStore(t)
	runTwoFACodeStoreTests(t, store)

	t.Run("KeyAndTTL", func(t *testing.T) {
		email := domain.MustParseEmail("ttl@example.com")
		require.NoError(t, store.AddCode(context.Background(), email, domain.NewLoginAttemptID(), mustCode(t, "246810")))

		key := DefaultRedisKeyPrefix + "ttl@example.com"
		assert.True(t, mr.Exists(key))
		assert.Equal(t, DefaultCodeTTL, mr.TTL(key))

		mr.FastForward(DefaultCodeTTL + time.Second)

		_, _, err := store.GetCode(context.Background(), email)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("BackendFailure", func(t *testing.T) {
		down, err := miniredis.Run()
		require.NoError(t, err)
		rdb := redis.NewClient(&redis.Options{Addr: down.Addr(), MaxRetries: -1})
		defer rdb.Close()
		down.Close()

		broken := NewRedisTwoFACodeStore(rdb, "", 0)
		_, _, err = broken.GetCode(context.Background(), domain.MustParseEmail("x@example.com"))
		assert.ErrorIs(t, err, ErrBackend)
	})
}
