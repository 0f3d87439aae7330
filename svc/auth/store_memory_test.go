package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentica/userkit/svc/auth"
)

func TestMemoryAccountStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		t.Parallel()

		storage := auth.NewMemoryAccountStorage()
		require.NoError(t, storage.Create(ctx, &auth.Account{Email: "user@example.com", Name: "Jane"}))

		account, err := storage.GetByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane", account.Name)
	})

	t.Run("duplicate create", func(t *testing.T) {
		t.Parallel()

		storage := auth.NewMemoryAccountStorage()
		require.NoError(t, storage.Create(ctx, &auth.Account{Email: "user@example.com"}))
		assert.ErrorIs(t, storage.Create(ctx, &auth.Account{Email: "user@example.com"}), auth.ErrEmailAlreadyExists)
	})

	t.Run("returned account is a copy", func(t *testing.T) {
		t.Parallel()

		storage := auth.NewMemoryAccountStorage()
		require.NoError(t, storage.Create(ctx, &auth.Account{Email: "user@example.com", Name: "Jane"}))

		account, err := storage.GetByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		account.Name = "mutated"

		again, err := storage.GetByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane", again.Name)
	})

	t.Run("update missing account", func(t *testing.T) {
		t.Parallel()

		storage := auth.NewMemoryAccountStorage()
		assert.ErrorIs(t, storage.Update(ctx, &auth.Account{Email: "nobody@example.com"}), auth.ErrAccountNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		t.Parallel()

		storage := auth.NewMemoryAccountStorage()
		require.NoError(t, storage.Create(ctx, &auth.Account{Email: "user@example.com"}))
		require.NoError(t, storage.Delete(ctx, "user@example.com"))
		require.NoError(t, storage.Delete(ctx, "user@example.com"))
	})
}

func TestMemoryRefreshTokenStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("upsert replaces the record for an email", func(t *testing.T) {
		t.Parallel()

		store := auth.NewMemoryRefreshTokenStore(0)
		t.Cleanup(store.Close)

		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "user@example.com", Token: "first", ExpiresAt: time.Now().Add(time.Hour),
		}))
		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "user@example.com", Token: "second", ExpiresAt: time.Now().Add(time.Hour),
		}))

		rec, err := store.FindByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, "second", rec.Token)
	})

	t.Run("expired record is not returned", func(t *testing.T) {
		t.Parallel()

		store := auth.NewMemoryRefreshTokenStore(0)
		t.Cleanup(store.Close)

		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "user@example.com", Token: "stale", ExpiresAt: time.Now().Add(-time.Minute),
		}))

		_, err := store.FindByEmail(ctx, "user@example.com")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("janitor sweeps expired records", func(t *testing.T) {
		t.Parallel()

		store := auth.NewMemoryRefreshTokenStore(10 * time.Millisecond)
		t.Cleanup(store.Close)

		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "user@example.com", Token: "stale", ExpiresAt: time.Now().Add(-time.Minute),
		}))

		assert.Eventually(t, func() bool {
			_, err := store.FindByEmail(ctx, "user@example.com")
			return err != nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("find by token", func(t *testing.T) {
		t.Parallel()

		store := auth.NewMemoryRefreshTokenStore(0)
		t.Cleanup(store.Close)

		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "user@example.com", Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour),
		}))

		rec, err := store.FindByToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", rec.Email)

		_, err = store.FindByToken(ctx, "unknown")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("purge expired removes only stale records", func(t *testing.T) {
		t.Parallel()

		store := auth.NewMemoryRefreshTokenStore(0)
		t.Cleanup(store.Close)

		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "stale@example.com", Token: "stale", ExpiresAt: time.Now().Add(-time.Minute),
		}))
		require.NoError(t, store.Upsert(ctx, auth.RefreshRecord{
			Email: "live@example.com", Token: "live", ExpiresAt: time.Now().Add(time.Hour),
		}))

		require.NoError(t, store.PurgeExpired(ctx, time.Now()))

		_, err := store.FindByEmail(ctx, "stale@example.com")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		_, err = store.FindByEmail(ctx, "live@example.com")
		assert.NoError(t, err)
	})

	t.Run("delete missing record is not an error", func(t *testing.T) {
		t.Parallel()

		store := auth.NewMemoryRefreshTokenStore(0)
		t.Cleanup(store.Close)
		require.NoError(t, store.DeleteByEmail(ctx, "nobody@example.com"))
	})
}
