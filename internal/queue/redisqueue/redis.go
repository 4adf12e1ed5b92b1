// Package redisqueue implements internal/queue.Queue against Redis,
// generalizing the teacher's BLPop/RPush job-queue idiom
// (media-worker/internal/worker/pool.go) into a reliable pending-list
// + message-hash pattern: a message body stays in the hash between
// dequeue and ack. Receive pops the id off the pending list, so a
// message that is received but never acked is not delivered again by
// Receive; only its body remains in the hash.
package redisqueue

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/queue"
)

const (
	pendingListKey = "mediavalidator:queue:pending"
	bodyHashKey    = "mediavalidator:queue:bodies"
	receiveTimeout = 0 // non-blocking poll; the worker owns its own tick cadence
)

// Queue is a Redis-backed internal/queue.Queue.
type Queue struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Queue {
	return &Queue{client: client}
}

// Send implements queue.Queue.
func (q *Queue) Send(ctx context.Context, payload string) error {
	id := uuid.New().String()
	if err := q.client.HSet(ctx, bodyHashKey, id, payload).Err(); err != nil {
		return fmt.Errorf("redisqueue: send: store body: %w", err)
	}
	if err := q.client.RPush(ctx, pendingListKey, id).Err(); err != nil {
		return fmt.Errorf("redisqueue: send: push pending: %w", err)
	}
	return nil
}

// Receive implements queue.Queue: it pops up to max ids off the
// pending list (non-blocking — callers already run on their own
// ticker) and resolves each id's body from the hash. An id whose body
// has already been acked concurrently is skipped rather than
// surfaced as an error.
func (q *Queue) Receive(ctx context.Context, max int) ([]queue.Message, error) {
	var out []queue.Message
	for i := 0; i < max; i++ {
		id, err := q.client.LPop(ctx, pendingListKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return out, fmt.Errorf("redisqueue: receive: %w", err)
		}

		body, err := q.client.HGet(ctx, bodyHashKey, id).Result()
		if err == redis.Nil {
			// Body already gone (acked or expired) — drop this id and
			// keep draining the pending list.
			continue
		}
		if err != nil {
			return out, fmt.Errorf("redisqueue: receive: fetch body %s: %w", id, err)
		}

		out = append(out, queue.Message{ID: id, Data: body})
	}
	return out, nil
}

// Ack implements queue.Queue: removes the message body permanently.
func (q *Queue) Ack(ctx context.Context, id string) error {
	if err := q.client.HDel(ctx, bodyHashKey, id).Err(); err != nil {
		return fmt.Errorf("redisqueue: ack %s: %w", id, err)
	}
	return nil
}
