package projectcfg

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
	"github.com/mrz1836/taskflow/internal/workflow"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), RedisOptions{
		URL:         "redis://" + mr.Addr(),
		MaxActive:   4,
		MaxIdle:     2,
		IdleTimeout: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()
	steps := workflow.NewProgrammingTemplate().Steps

	_, ok, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "p1", steps, time.Minute))
	assert.True(t, mr.Exists(constants.CacheKeyPrefix+"p1"))

	got, ok, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, steps, got)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "p1", workflow.NewOtherTemplate().Steps, 2*time.Second))
	mr.FastForward(3 * time.Second)

	_, ok, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ShortTTLUsesDefault(t *testing.T) {
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.Set(context.Background(), "p1", workflow.NewOtherTemplate().Steps, 0))
	assert.Equal(t, constants.DefaultCacheTTL, mr.TTL(constants.CacheKeyPrefix+"p1"))
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestRedisCache(t)
	require.NoError(t, mr.Set(constants.CacheKeyPrefix+"p1", "{not json"))

	_, ok, err := c.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_WithResolver(t *testing.T) {
	c, mr := newTestRedisCache(t)
	r := NewResolver(workflow.NewDefaultRegistry(), WithCache(c, time.Minute))

	_, err := r.Steps(context.Background(), &domain.Project{ID: "p9", Industry: "legal"})
	require.NoError(t, err)
	assert.True(t, mr.Exists(constants.CacheKeyPrefix+"p9"))
}

func TestNewRedisCache_EmptyURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{})
	require.ErrorIs(t, err, tferrors.ErrCacheUnavailable)
	require.ErrorIs(t, err, tferrors.ErrEmptyValue)
}
