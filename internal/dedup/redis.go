package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tweetbot:replied:"

// RedisGuard records answered tweet ids in Redis. Entries expire after ttl;
// zero keeps them forever.
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

// Connect opens a client for addr and checks it is reachable.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (g *RedisGuard) Seen(ctx context.Context, tweetID string) (bool, error) {
	n, err := g.rdb.Exists(ctx, keyPrefix+tweetID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *RedisGuard) Mark(ctx context.Context, tweetID string) error {
	return g.rdb.Set(ctx, keyPrefix+tweetID, time.Now().Unix(), g.ttl).Err()
}
