// Package queue implements the delayed job queue used for password delivery.
//
// With REDIS_URL set, jobs live in a Redis sorted set scored by their run
// time, so several worker processes can share the queue: a job belongs to the
// worker whose ZREM removed it. Without Redis, an in-process queue is used.
package queue
