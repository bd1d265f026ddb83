// Package ratelimit implements the QuotaGate port on shared Redis buckets.
// Counters live only in Redis so every service instance sees the same
// remaining quota; there is no in-process bucket state.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// bucket is one fixed-window limit
type bucket struct {
	limit  int
	window time.Duration
}

// RedisGate implements outbound.QuotaGate
type RedisGate struct {
	client *redis.Client
	free   map[outbound.OperationClass]bucket
	pro    bucket
	logger *zap.Logger
}

// NewRedisGate creates a new quota gate from the configured limits
func NewRedisGate(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) outbound.QuotaGate {
	return &RedisGate{
		client: client,
		free: map[outbound.OperationClass]bucket{
			outbound.ClassPantryScan:           {limit: cfg.FreeScanLimit, window: cfg.FreeScanWindow},
			outbound.ClassRecipeRecommendation: {limit: cfg.FreeSuggestLimit, window: cfg.FreeSuggestWindow},
		},
		pro:    bucket{limit: cfg.ProLimit, window: cfg.ProWindow},
		logger: logger.Named("quota-gate"),
	}
}

// consumeScript increments the counter and stamps the window expiry in one
// atomic call, so a crash between the increment and the expiry can never
// strand a counter without a TTL.
var consumeScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Check consumes one unit from the caller's bucket for the operation class.
// The first hit in a window sets the expiry; when the counter passes the
// limit the request is denied with a rate-limit reason. Redis being
// unreachable is an error, not a denial.
func (g *RedisGate) Check(ctx context.Context, userKey string, tier user.Tier, class outbound.OperationClass) (outbound.Decision, error) {
	b := g.bucketFor(tier, class)
	if b.limit <= 0 {
		return outbound.Decision{}, fmt.Errorf("no limit configured for class %s", class)
	}

	key := g.keyFor(userKey, tier, class)

	count, err := consumeScript.Run(ctx, g.client, []string{key}, b.window.Milliseconds()).Int64()
	if err != nil {
		return outbound.Decision{}, fmt.Errorf("quota consume: %w", err)
	}

	if count > int64(b.limit) {
		g.logger.Info("Quota denied",
			zap.String("class", string(class)),
			zap.String("tier", string(tier)),
			zap.Int64("count", count),
			zap.Int("limit", b.limit),
		)
		return outbound.Decision{
			Allowed: false,
			Reason:  outbound.DenyRateLimit,
			Limit:   b.limit,
		}, nil
	}

	return outbound.Decision{Allowed: true, Limit: b.limit}, nil
}

func (g *RedisGate) bucketFor(tier user.Tier, class outbound.OperationClass) bucket {
	if tier == user.TierPro {
		return g.pro
	}
	return g.free[class]
}

// keyFor omits the class segment for pro users: pro draws every operation
// class from one shared bucket, free tiers meter each class separately.
func (g *RedisGate) keyFor(userKey string, tier user.Tier, class outbound.OperationClass) string {
	if tier == user.TierPro {
		return fmt.Sprintf("quota:%s:%s", tier, userKey)
	}
	return fmt.Sprintf("quota:%s:%s:%s", tier, class, userKey)
}
