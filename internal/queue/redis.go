// Package queue provides the Redis-backed import queue. Imports are consumed
// by a single BRPOP loop so demos process strictly one at a time in arrival
// order; a failed job goes to the dead list instead of being retried, since
// reparsing a bad demo fails the same way every time.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"demodash/internal/logging"
)

const (
	defaultQueueKey = "demo_imports"
	deadSuffix      = ":dead"
	brPopBlock      = 5 * time.Second
)

// RedisQueue implements queue operations using Redis lists.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a Redis-backed queue helper. An empty key falls back
// to the default.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = defaultQueueKey
	}
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes a job payload onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, payload []byte) error {
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Consume uses BRPOP to deliver jobs to the handler until the context is
// canceled. Jobs run sequentially on this goroutine; a handler error parks
// the payload on the dead list and the loop moves on.
func (q *RedisQueue) Consume(ctx context.Context, handler func([]byte) error) error {
	logger := logging.Logger()
	deadKey := q.key + deadSuffix

	for {
		if ctx.Err() != nil {
			logger.Warnf("redis consumer exiting: %v", ctx.Err())
			return ctx.Err()
		}

		result, err := q.client.BRPop(ctx, brPopBlock, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				logger.Warnf("redis BRPOP canceled: %v", ctx.Err())
				return ctx.Err()
			}
			logger.Warnf("redis BRPOP error: %v", err)
			continue
		}
		if len(result) < 2 {
			continue
		}
		payload := []byte(result[1])
		if err := handler(payload); err != nil {
			logger.Errorf("import job failed: %v", err)
			if err := q.client.LPush(ctx, deadKey, payload).Err(); err != nil {
				logger.Errorf("dead list push failed: %v", err)
			}
		}
	}
}
