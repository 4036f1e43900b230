package twofa

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-auth/pkg/domain"
)

func mustCode(t *testing.T, raw string) domain.TwoFACode {
	t.Helper()
	code, err := domain.ParseTwoFACode(raw)
	require.NoError(t, err)
	return code
}

// runTwoFACodeStoreTests exercises behaviour every backend must share.
func runTwoFACodeStoreTests(t *testing.T, store TwoFACodeStore) {
	ctx := context.Background()

	t.Run("AddAndGetCode", func(t *testing.T) {
		email := domain.MustParseEmail("add@example.com")
		id := domain.NewLoginAttemptID()
		code := mustCode(t, "123456")

		require.NoError(t, store.AddCode(ctx, email, id, code))

		gotID, gotCode, err := store.GetCode(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)
		assert.True(t, code.Equal(gotCode))
	})

	t.Run("GetUnknownCode", func(t *testing.T) {
		_, _, err := store.GetCode(ctx, domain.MustParseEmail("nobody@example.com"))
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("AddCodeOverwrites", func(t *testing.T) {
		email := domain.MustParseEmail("overwrite@example.com")
		oldID := domain.NewLoginAttemptID()
		newID := domain.NewLoginAttemptID()

		require.NoError(t, store.AddCode(ctx, email, oldID, mustCode(t, "111111")))
		require.NoError(t, store.AddCode(ctx, email, newID, mustCode(t, "222222")))

		gotID, gotCode, err := store.GetCode(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, newID, gotID)
		assert.Equal(t, "222222", gotCode.Expose())

		assert.ErrorIs(t, store.ConsumeCode(ctx, email, oldID, mustCode(t, "111111")), ErrCodeMismatch)
	})

	t.Run("RemoveCode", func(t *testing.T) {
		email := domain.MustParseEmail("remove@example.com")
		require.NoError(t, store.AddCode(ctx, email, domain.NewLoginAttemptID(), mustCode(t, "333333")))

		require.NoError(t, store.RemoveCode(ctx, email))
		assert.ErrorIs(t, store.RemoveCode(ctx, email), ErrCodeNotFound)

		_, _, err := store.GetCode(ctx, email)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("ConsumeCode", func(t *testing.T) {
		email := domain.MustParseEmail("consume@example.com")
		id := domain.NewLoginAttemptID()
		code := mustCode(t, "444444")
		require.NoError(t, store.AddCode(ctx, email, id, code))

		assert.ErrorIs(t, store.ConsumeCode(ctx, email, id, mustCode(t, "444445")), ErrCodeMismatch)
		assert.ErrorIs(t, store.ConsumeCode(ctx, email, domain.NewLoginAttemptID(), code), ErrCodeMismatch)

		// A failed attempt leaves the challenge in place.
		require.NoError(t, store.ConsumeCode(ctx, email, id, code))

		// Single use.
		assert.ErrorIs(t, store.ConsumeCode(ctx, email, id, code), ErrCodeNotFound)
	})

	t.Run("ConcurrentConsumeHasOneWinner", func(t *testing.T) {
		email := domain.MustParseEmail("race@example.com")
		id := domain.NewLoginAttemptID()
		code := mustCode(t, "555555")
		require.NoError(t, store.AddCode(ctx, email, id, code))

		var wg sync.WaitGroup
		var winners atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := store.ConsumeCode(ctx, email, id, code); err == nil {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), winners.Load())
	})

	t.Run("IndependentEmails", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			email := domain.MustParseEmail(fmt.Sprintf("user%d@example.com", i))
			require.NoError(t, store.AddCode(ctx, email, domain.NewLoginAttemptID(), mustCode(t, fmt.Sprintf("%d00000", i+1))))
		}
		for i := 0; i < 5; i++ {
			_, code, err := store.GetCode(ctx, domain.MustParseEmail(fmt.Sprintf("user%d@example.com", i)))
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("%d00000", i+1), code.Expose())
		}
	})
}

func TestInMemoryTwoFACodeStore(t *testing.T) {
	runTwoFACodeStoreTests(t, NewInMemoryTwoFACodeStore(0))

	t.Run("Expiry", func(t *testing.T) {
		now := time.Now()
		store := NewInMemoryTwoFACodeStore(time.Minute)
		store.now = func() time.Time { return now }
		ctx := context.Background()

		email := domain.MustParseEmail("expire@example.com")
		id := domain.NewLoginAttemptID()
		code := mustCode(t, "999999")
		require.NoError(t, store.AddCode(ctx, email, id, code))

		now = now.Add(2 * time.Minute)

		_, _, err := store.GetCode(ctx, email)
		assert.ErrorIs(t, err, ErrCodeNotFound)
		assert.ErrorIs(t, store.ConsumeCode(ctx, email, id, code), ErrCodeNotFound)
	})
}

func TestFileTwoFACodeStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileTwoFACodeStore(dir, 0)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	runTwoFACodeStoreTests(t, store)

	t.Run("Reload", func(t *testing.T) {
		ctx := context.Background()
		email := domain.MustParseEmail("reload@example.com")
		id := domain.NewLoginAttemptID()
		require.NoError(t, store.AddCode(ctx, email, id, mustCode(t, "777777")))

		reloaded, err := NewFileTwoFACodeStore(dir, 0)
		require.NoError(t, err)

		gotID, gotCode, err := reloaded.GetCode(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)
		assert.Equal(t, "777777", gotCode.Expose())
	})

	t.Run("ExpiredEntriesDroppedOnLoad", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		short, err := NewFileTwoFACodeStore(dir, time.Millisecond)
		require.NoError(t, err)
		email := domain.MustParseEmail("stale@example.com")
		require.NoError(t, short.AddCode(ctx, email, domain.NewLoginAttemptID(), mustCode(t, "888888")))

		time.Sleep(5 * time.Millisecond)

		reloaded, err := NewFileTwoFACodeStore(dir, 0)
		require.NoError(t, err)
		_, _, err = reloaded.GetCode(ctx, email)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	})
}
