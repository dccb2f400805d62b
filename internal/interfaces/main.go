package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

// Limiter throttles per-key interactions. Implementations return
// limiter.ErrRateLimited when the key is over its limit.
type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}
