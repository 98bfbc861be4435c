package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sealer, err := NewSealer("redis-secret")
	require.NoError(t, err)
	return NewStore(NewRedisBackend(rdb, sealer, "sess"), time.Hour), mr
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("Tokens Are Sealed At Rest", func(t *testing.T) {
		store, mr := newRedisStore(t)
		s, err := store.Open(ctx, "r-1")
		require.NoError(t, err)
		require.NoError(t, s.Set(ctx, "bearer-token", "refresh-token", "ADMIN"))

		raw := mr.HGet("sess:r-1", KeyToken)
		assert.NotEmpty(t, raw)
		assert.NotContains(t, raw, "bearer-token")
		assert.Equal(t, "ADMIN", mr.HGet("sess:r-1", KeyRole))
		assert.Greater(t, mr.TTL("sess:r-1"), time.Duration(0))

		again, err := store.Open(ctx, "r-1")
		require.NoError(t, err)
		tok, ok := again.Get(KeyToken)
		assert.True(t, ok)
		assert.Equal(t, "bearer-token", tok)
		ref, _ := again.Get(KeyRefreshToken)
		assert.Equal(t, "refresh-token", ref)
	})

	t.Run("Tampered Token Reads As Signed Out", func(t *testing.T) {
		store, mr := newRedisStore(t)
		s, err := store.Open(ctx, "r-2")
		require.NoError(t, err)
		require.NoError(t, s.Set(ctx, "bearer-token", "refresh-token", "ADMIN"))

		mr.HSet("sess:r-2", KeyToken, "not-a-sealed-value")
		again, err := store.Open(ctx, "r-2")
		require.NoError(t, err)
		assert.False(t, again.Authenticated())
		_, ok := again.Get(KeyRefreshToken)
		assert.True(t, ok)
	})

	t.Run("Clear Wins Over Concurrent Flash", func(t *testing.T) {
		store, mr := newRedisStore(t)
		first, err := store.Open(ctx, "r-3")
		require.NoError(t, err)
		require.NoError(t, first.Set(ctx, "t", "r", "ADMIN"))

		r1, err := store.Open(ctx, "r-3")
		require.NoError(t, err)
		r2, err := store.Open(ctx, "r-3")
		require.NoError(t, err)
		require.NoError(t, r1.ClearAll(ctx))
		require.NoError(t, r2.AddFlash(ctx, "success", "Employee updated successfully"))

		assert.Empty(t, mr.HGet("sess:r-3", KeyToken))
		after, err := store.Open(ctx, "r-3")
		require.NoError(t, err)
		assert.False(t, after.Authenticated())
		f, ok := after.PopFlash(ctx)
		require.True(t, ok)
		assert.Equal(t, "success", f.Kind)

		// the last flash field gone, the hash is gone too
		assert.False(t, mr.Exists("sess:r-3"))
	})

	t.Run("Renew Moves The Hash", func(t *testing.T) {
		store, mr := newRedisStore(t)
		s, err := store.Open(ctx, "r-4")
		require.NoError(t, err)
		require.NoError(t, s.AddFlash(ctx, "error", "x"))
		require.NoError(t, s.Renew(ctx))

		assert.False(t, mr.Exists("sess:r-4"))
		assert.Equal(t, "x", mr.HGet("sess:"+s.ID(), keyFlashText))
	})

	t.Run("Unavailable", func(t *testing.T) {
		store, mr := newRedisStore(t)
		mr.Close()
		_, err := store.Open(ctx, "r-5")
		assert.Error(t, err)
	})
}
