package popularity

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTracker(t *testing.T) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisTracker(rdb, "popular"), mr
}

func TestRedisTracker_TopN(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, _ := newRedisTracker(t)

	record(t, tr, "zebra", "Apple", "dog", "apple", "zebra", "dog", "dog")

	got, err := tr.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "zebra", "apple"}, got)

	got, err = tr.TopN(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "zebra"}, got)
}

func TestRedisTracker_Keys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, mr := newRedisTracker(t)

	record(t, tr, "Cat", "cat")

	assert.True(t, mr.Exists("popular:counts"))
	assert.True(t, mr.Exists("popular:seen"))
	assert.Equal(t, "1", mr.HGet("popular:seen", "cat"))

	n, err := tr.Count(ctx, "CAT")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	missing, err := tr.Count(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestRedisTracker_EmptyAndReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, mr := newRedisTracker(t)

	got, err := tr.TopN(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	record(t, tr, "cat")
	require.NoError(t, tr.Reset(ctx))
	assert.False(t, mr.Exists("popular:counts"))
	assert.False(t, mr.Exists("popular:seen"))
	assert.False(t, mr.Exists("popular:seq"))

	got, err = tr.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisTracker_Ping(t *testing.T) {
	t.Parallel()
	tr, mr := newRedisTracker(t)

	require.NoError(t, tr.Ping(context.Background()))

	mr.Close()
	assert.Error(t, tr.Ping(context.Background()))
}

func TestRedisTracker_ErrorsWrapped(t *testing.T) {
	t.Parallel()
	tr, mr := newRedisTracker(t)
	mr.Close()

	err := tr.RecordSearch(context.Background(), "cat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popularity")
}

func TestRedisTracker_RecordSearchSingleRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, mr := newRedisTracker(t)

	// The first call loads the script (EVALSHA miss, then EVAL).
	record(t, tr, "warm")

	before := mr.CommandCount()
	record(t, tr, "cat")
	assert.Equal(t, 1, mr.CommandCount()-before)

	before = mr.CommandCount()
	record(t, tr, "cat")
	assert.Equal(t, 1, mr.CommandCount()-before)

	n, err := tr.Count(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "2", mr.HGet("popular:seen", "cat"))
}

func TestRedisTracker_WhitespaceIsPartOfTheKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, _ := newRedisTracker(t)

	record(t, tr, "cat", " cat ", "   ", "")

	got, err := tr.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", " cat ", "   "}, got)
}
