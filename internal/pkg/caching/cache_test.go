package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string
	Count int
}

func newTestCache(t *testing.T) *CacheRedis {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c, err := NewCacheRedis(client, false)
	require.NoError(t, err)
	return c
}

func TestUseCache(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	calls := 0
	load := func() ([]item, error) {
		calls++
		return []item{{Name: "a", Count: calls}}, nil
	}

	v, err := UseCache(ctx, c, "items", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, 1, v[0].Count)

	v, err = UseCache(ctx, c, "items", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, 1, v[0].Count)
	require.Equal(t, 1, calls)

	require.NoError(t, Invalidate(ctx, c, "items"))
	require.NoError(t, Invalidate(ctx, c, "items"))

	v, err = UseCache(ctx, c, "items", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, 2, v[0].Count)
}

func TestUseCacheCallbackError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	boom := errors.New("boom")

	_, err := UseCache(ctx, c, "k", time.Minute, func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	v, err := UseCache(ctx, c, "k", time.Minute, func() (int, error) { return 5, nil })
	require.NoError(t, err)
	require.Equal(t, 5, v)
}
