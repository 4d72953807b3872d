package popularity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
)

// recordSearchScript marks the first-seen sequence of a word and bumps its
// count atomically, in one round trip.
//
// KEYS: counts zset, seen hash, seq counter. ARGV: normalized word.
var recordSearchScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[2], ARGV[1]) == 0 then
	redis.call('HSET', KEYS[2], ARGV[1], redis.call('INCR', KEYS[3]))
end
return redis.call('ZINCRBY', KEYS[1], 1, ARGV[1])
`)

// RedisTracker keeps counters in Redis so that several instances can share
// one leaderboard. Counts are a sorted set, first-seen order is a hash of
// word -> sequence number. The keys outlive the process; the application
// clears them at startup unless popularity.keep_on_start is set.
type RedisTracker struct {
	rdb       redis.Cmdable
	countsKey string
	seenKey   string
	seqKey    string
}

// NewRedisClient creates a go-redis client and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// NewRedisTracker creates a tracker storing its keys under prefix.
func NewRedisTracker(rdb redis.Cmdable, prefix string) *RedisTracker {
	return &RedisTracker{
		rdb:       rdb,
		countsKey: prefix + ":counts",
		seenKey:   prefix + ":seen",
		seqKey:    prefix + ":seq",
	}
}

// RecordSearch increments the count of the normalized word.
func (t *RedisTracker) RecordSearch(ctx context.Context, word string) error {
	if word == "" {
		return nil
	}
	key := domain.NormalizeWord(word)

	keys := []string{t.countsKey, t.seenKey, t.seqKey}
	if err := recordSearchScript.Run(ctx, t.rdb, keys, key).Err(); err != nil {
		return fmt.Errorf("popularity: increment %q: %w", key, err)
	}
	return nil
}

// TopN returns up to n words ordered by count descending, then first-seen.
func (t *RedisTracker) TopN(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}

	members, err := t.rdb.ZRangeWithScores(ctx, t.countsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("popularity: read counts: %w", err)
	}
	if len(members) == 0 {
		return []string{}, nil
	}

	words := make([]string, len(members))
	for i, m := range members {
		words[i] = fmt.Sprint(m.Member)
	}

	seqs, err := t.rdb.HMGet(ctx, t.seenKey, words...).Result()
	if err != nil {
		return nil, fmt.Errorf("popularity: read seen: %w", err)
	}

	ranked := make([]rankedWord, len(members))
	for i, m := range members {
		ranked[i] = rankedWord{
			word:  words[i],
			count: int64(m.Score),
			seq:   parseSeq(seqs[i]),
		}
	}
	return topWords(ranked, n), nil
}

// Count returns the current count for word (normalized).
func (t *RedisTracker) Count(ctx context.Context, word string) (int64, error) {
	score, err := t.rdb.ZScore(ctx, t.countsKey, domain.NormalizeWord(word)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("popularity: read count: %w", err)
	}
	return int64(score), nil
}

// Reset deletes every key owned by the tracker.
func (t *RedisTracker) Reset(ctx context.Context) error {
	if err := t.rdb.Del(ctx, t.countsKey, t.seenKey, t.seqKey).Err(); err != nil {
		return fmt.Errorf("popularity: reset: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (t *RedisTracker) Ping(ctx context.Context) error {
	return t.rdb.Ping(ctx).Err()
}

// parseSeq maps a missing or broken sequence to the end of the order.
func parseSeq(v any) uint64 {
	s, ok := v.(string)
	if !ok {
		return ^uint64(0)
	}
	seq, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return ^uint64(0)
	}
	return seq
}
