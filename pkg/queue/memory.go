package queue

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ Queue = (*Memory)(nil)

// Memory is an in-process queue for development and tests. Jobs are lost
// on restart; the delivery worker re-enqueues pending rows on start.
type Memory struct {
	mu   sync.Mutex
	jobs map[uint]time.Time
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[uint]time.Time)}
}

func (q *Memory) Enqueue(ctx context.Context, id uint, runAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[id] = runAt
	return nil
}

func (q *Memory) Due(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []uint
	for id, runAt := range q.jobs {
		if !runAt.After(now) {
			due = append(due, id)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := q.jobs[due[i]], q.jobs[due[j]]
		if a.Equal(b) {
			return due[i] < due[j]
		}
		return a.Before(b)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	for _, id := range due {
		delete(q.jobs, id)
	}
	return due, nil
}

func (q *Memory) Len(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs)), nil
}

func (q *Memory) Close() error {
	return nil
}
