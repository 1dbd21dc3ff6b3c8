package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "test:"), mr
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	r, _ := testRedis(t)

	_, ok, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestRedisKeysArePrefixed(t *testing.T) {
	ctx := context.Background()
	r, mr := testRedis(t)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("test:k"))
}

func TestRedisExpiry(t *testing.T) {
	ctx := context.Background()
	r, mr := testRedis(t)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Hour))
	mr.FastForward(2 * time.Hour)

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := testRedis(t)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, r.Delete(ctx, "k"))
	_, ok, _ := r.Get(ctx, "k")
	assert.False(t, ok)
}
