package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis sorted set holding password deliveries
const DefaultKey = "conference:password_queue"

// Queue is a delayed job queue of delivery ids.
type Queue interface {
	// Enqueue schedules id to run at runAt. Enqueueing an id that is
	// already queued moves it to the new time.
	Enqueue(ctx context.Context, id uint, runAt time.Time) error

	// Due claims up to limit ids whose run time is not after now. A claimed
	// id is removed from the queue; concurrent callers never claim the same
	// id twice.
	Due(ctx context.Context, now time.Time, limit int) ([]uint, error)

	// Len returns the number of queued ids
	Len(ctx context.Context) (int64, error)

	Close() error
}

// New returns a Redis-backed queue when redisURL is set, otherwise an
// in-process queue.
func New(redisURL string) (Queue, error) {
	if redisURL == "" {
		return NewMemory(), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedis(redis.NewClient(opts), DefaultKey), nil
}
