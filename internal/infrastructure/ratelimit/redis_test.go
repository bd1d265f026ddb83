package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestGate(t *testing.T, cfg config.RateLimitConfig) (outbound.QuotaGate, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisGate(client, cfg, zaptest.NewLogger(t)), mr
}

func testLimits() config.RateLimitConfig {
	return config.RateLimitConfig{
		FreeScanLimit:     10,
		FreeScanWindow:    30 * 24 * time.Hour,
		FreeSuggestLimit:  5,
		FreeSuggestWindow: 30 * 24 * time.Hour,
		ProLimit:          3,
		ProWindow:         24 * time.Hour,
	}
}

func TestRedisGateCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("free scans allow up to the limit then deny", func(t *testing.T) {
		gate, _ := newTestGate(t, testLimits())

		for i := 0; i < 10; i++ {
			d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
			require.NoError(t, err)
			assert.True(t, d.Allowed, "check %d should be allowed", i+1)
			assert.Equal(t, 10, d.Limit)
		}

		d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, outbound.DenyRateLimit, d.Reason)
		assert.Equal(t, 10, d.Limit)
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		cfg := testLimits()
		gate, mr := newTestGate(t, cfg)

		for i := 0; i < 10; i++ {
			d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
			require.NoError(t, err)
			require.True(t, d.Allowed)
		}
		d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
		require.NoError(t, err)
		require.False(t, d.Allowed)

		mr.FastForward(cfg.FreeScanWindow + time.Second)

		d, err = gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("free classes meter independently", func(t *testing.T) {
		gate, _ := newTestGate(t, testLimits())

		for i := 0; i < 10; i++ {
			d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
			require.NoError(t, err)
			require.True(t, d.Allowed)
		}

		d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassRecipeRecommendation)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 5, d.Limit)
	})

	t.Run("pro draws both classes from one bucket", func(t *testing.T) {
		gate, _ := newTestGate(t, testLimits())

		classes := []outbound.OperationClass{
			outbound.ClassPantryScan,
			outbound.ClassRecipeRecommendation,
			outbound.ClassPantryScan,
		}
		for _, class := range classes {
			d, err := gate.Check(ctx, "subj_2", user.TierPro, class)
			require.NoError(t, err)
			require.True(t, d.Allowed)
			assert.Equal(t, 3, d.Limit)
		}

		d, err := gate.Check(ctx, "subj_2", user.TierPro, outbound.ClassRecipeRecommendation)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, outbound.DenyRateLimit, d.Reason)
	})

	t.Run("users never share buckets", func(t *testing.T) {
		gate, _ := newTestGate(t, testLimits())

		for i := 0; i < 10; i++ {
			d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
			require.NoError(t, err)
			require.True(t, d.Allowed)
		}

		d, err := gate.Check(ctx, "subj_3", user.TierFree, outbound.ClassPantryScan)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("first hit stamps the window TTL", func(t *testing.T) {
		cfg := testLimits()
		gate, mr := newTestGate(t, cfg)

		_, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
		require.NoError(t, err)

		ttl := mr.TTL("quota:free:pantry-scan:subj_1")
		assert.Equal(t, cfg.FreeScanWindow, ttl)
	})

	t.Run("redis outage is an error not a denial", func(t *testing.T) {
		gate, mr := newTestGate(t, testLimits())
		mr.Close()

		d, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
		require.Error(t, err)
		assert.Equal(t, outbound.Decision{}, d)
	})

	t.Run("unconfigured class is an error", func(t *testing.T) {
		gate, _ := newTestGate(t, config.RateLimitConfig{})

		_, err := gate.Check(ctx, "subj_1", user.TierFree, outbound.ClassPantryScan)
		assert.Error(t, err)
	})
}
