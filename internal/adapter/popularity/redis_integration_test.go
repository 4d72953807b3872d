package popularity

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordlookup/internal/adapter/testhelper"
)

func TestRedisTracker_Integration(t *testing.T) {
	rdb := testhelper.SetupRedis(t)
	ctx := context.Background()
	tr := NewRedisTracker(rdb, "it:popular")

	require.NoError(t, tr.Ping(ctx))

	record(t, tr, "zebra", "Apple", "dog", "apple", "zebra", "dog", "dog")

	got, err := tr.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "zebra", "apple"}, got)

	n, err := tr.Count(ctx, "APPLE")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// The script runs as one server-side unit, so first-seen order holds
	// for words that tie on count.
	seq, err := rdb.HGet(ctx, "it:popular:seen", "zebra").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", seq)

	require.NoError(t, tr.Reset(ctx))
	got, err = tr.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisTracker_Integration_ConcurrentIncrements(t *testing.T) {
	rdb := testhelper.SetupRedis(t)
	ctx := context.Background()
	tr := NewRedisTracker(rdb, "it:concurrent")

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				assert.NoError(t, tr.RecordSearch(ctx, "echo"))
			}
		}()
	}
	wg.Wait()

	n, err := tr.Count(ctx, "echo")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), n)

	seq, err := rdb.Get(ctx, "it:concurrent:seq").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", seq, "a word is assigned exactly one first-seen sequence")
}
