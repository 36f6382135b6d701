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

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func setupCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedisWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "huddle:")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_RoundTripAndPrefix(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SetJSON(ctx, "upload:1", payload{Name: "fall", Score: 7.5}, time.Minute))
	assert.True(t, mr.Exists("huddle:upload:1"))

	var got payload
	require.NoError(t, c.GetJSON(ctx, "upload:1", &got))
	assert.Equal(t, payload{Name: "fall", Score: 7.5}, got)
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	var got payload
	assert.ErrorIs(t, c.GetJSON(ctx, "nope", &got), ErrMiss)

	require.NoError(t, c.SetJSON(ctx, "short", payload{Name: "x"}, time.Second))
	mr.FastForward(2 * time.Second)
	assert.ErrorIs(t, c.GetJSON(ctx, "short", &got), ErrMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "a", 1, 0))
	require.NoError(t, c.Delete(ctx, "a", "missing"))
	assert.False(t, mr.Exists("huddle:a"))
	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := setupCache(t)
	require.NoError(t, mr.Set("huddle:bad", "{not json"))

	var got payload
	err := c.GetJSON(context.Background(), "bad", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
