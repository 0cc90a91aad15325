package queue

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/errors"
)

const defaultRedisKey = "queue:trade_history"

// Redis backs the queue with a redis list, so buffered events survive a
// process restart and the migrator can catch up afterwards.
type Redis struct {
	rdb *redis.Client
	key string
}

// NewRedis wraps an existing client. An empty key selects the default
// trade-history list.
func NewRedis(rdb *redis.Client, key string) *Redis {
	if key == "" {
		key = defaultRedisKey
	}
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Append(ctx context.Context, payload []byte) error {
	return errors.Wrap(r.rdb.RPush(ctx, r.key, payload).Err(), "rpush event")
}

func (r *Redis) Peek(ctx context.Context, n int) ([][]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	items, err := r.rdb.LRange(ctx, r.key, 0, int64(n)-1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "lrange events")
	}
	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = []byte(item)
	}
	return out, nil
}

func (r *Redis) Trim(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	return errors.Wrap(r.rdb.LTrim(ctx, r.key, int64(n), -1).Err(), "ltrim events")
}

func (r *Redis) Len(ctx context.Context) (int64, error) {
	length, err := r.rdb.LLen(ctx, r.key).Result()
	return length, errors.Wrap(err, "llen events")
}
