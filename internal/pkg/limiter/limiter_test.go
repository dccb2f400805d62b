package limiter

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// runs only against a real redis, the limiter relies on server-side lua.
func TestRedisLimiterIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLimiter(client)
	key := "test:" + uuid.NewString()
	limit := redis_rate.PerMinute(2)

	ctx := context.Background()
	require.NoError(t, l.Allow(ctx, key, limit))
	require.NoError(t, l.Allow(ctx, key, limit))
	require.ErrorIs(t, l.Allow(ctx, key, limit), ErrRateLimited)
}
