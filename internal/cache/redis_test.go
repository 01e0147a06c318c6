package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appsamples/internal/cache"
)

func newTestRedis(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisFromClient(rdb), mr
}

func TestRedis_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	_, err := c.Get(ctx, "greetings:main")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "greetings:main", "[]", 10*time.Second))
	got, err := c.Get(ctx, "greetings:main")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Equal(t, 10*time.Second, mr.TTL("greetings:main"))

	mr.FastForward(11 * time.Second)
	_, err = c.Get(ctx, "greetings:main")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	assert.NoError(t, c.Delete(ctx, "k"), "deleting a missing key")
}

func TestRedis_Add(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	ok, err := c.Add(ctx, "counter:hits", "5", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Add(ctx, "counter:hits", "9", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := mr.Get("counter:hits")
	require.NoError(t, err)
	assert.Equal(t, "5", v)
}

func TestRedis_Incr(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key is not created", func(t *testing.T) {
		c, mr := newTestRedis(t)

		_, err := c.Incr(ctx, "counter:hits", 1)

		assert.ErrorIs(t, err, cache.ErrCacheMiss)
		assert.False(t, mr.Exists("counter:hits"))
	})

	t.Run("existing key moves by delta", func(t *testing.T) {
		c, mr := newTestRedis(t)
		require.NoError(t, mr.Set("counter:hits", "41"))

		n, err := c.Incr(ctx, "counter:hits", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), n)

		n, err = c.Incr(ctx, "counter:hits", -2)
		require.NoError(t, err)
		assert.Equal(t, int64(40), n)
	})

	t.Run("server errors are wrapped", func(t *testing.T) {
		c, mr := newTestRedis(t)
		require.NoError(t, c.Set(ctx, "warm", "1", 0))
		mr.SetError("ERR server unavailable")

		_, err := c.Incr(ctx, "counter:hits", 1)

		require.Error(t, err)
		assert.NotErrorIs(t, err, cache.ErrCacheMiss)
		assert.Contains(t, err.Error(), `redis incr "counter:hits"`)
	})
}
