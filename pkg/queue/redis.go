package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Queue = (*Redis)(nil)

// Redis stores jobs in a sorted set scored by run time in unix milliseconds
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (q *Redis) Enqueue(ctx context.Context, id uint, runAt time.Time) error {
	err := q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(runAt.UnixMilli()),
		Member: strconv.FormatUint(uint64(id), 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue delivery %d: %w", id, err)
	}
	return nil
}

func (q *Redis) Due(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	members, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read due deliveries: %w", err)
	}

	ids := make([]uint, 0, len(members))
	for _, member := range members {
		// ZREM decides which worker owns the job
		removed, err := q.client.ZRem(ctx, q.key, member).Result()
		if err != nil {
			return ids, fmt.Errorf("failed to claim delivery %s: %w", member, err)
		}
		if removed == 0 {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (q *Redis) Len(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.key).Result()
}

// Ping checks the connection to Redis
func (q *Redis) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *Redis) Close() error {
	return q.client.Close()
}
