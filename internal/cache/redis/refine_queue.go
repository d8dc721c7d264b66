package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skincraft/tradeupbot/internal/domain"
)

const (
	refineRequestStream = "refine:requests"
	refineResultStream  = "refine:results"
	refineStreamMaxLen  = 10000
)

// RefineQueue implements domain.RefineQueue on two Redis streams: pending
// inspect-link float lookups go out on one, the external lookup worker
// publishes precise condition values on the other.
type RefineQueue struct {
	rdb *redis.Client
}

// NewRefineQueue creates a RefineQueue backed by the given Client.
func NewRefineQueue(c *Client) *RefineQueue {
	return &RefineQueue{rdb: c.Underlying()}
}

// Enqueue appends one pending float lookup to the request stream.
func (q *RefineQueue) Enqueue(ctx context.Context, req domain.RefineRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("redis: marshal refine request: %w", err)
	}
	err = q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: refineRequestStream,
		MaxLen: refineStreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: enqueue refine request: %w", err)
	}
	return nil
}

// Complete publishes a finished lookup on the result stream.
func (q *RefineQueue) Complete(ctx context.Context, res domain.RefineResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("redis: marshal refine result: %w", err)
	}
	err = q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: refineResultStream,
		MaxLen: refineStreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: complete refine result: %w", err)
	}
	return nil
}

// Results tails the result stream and emits completed lookups. The returned
// channel closes when ctx is cancelled.
func (q *RefineQueue) Results(ctx context.Context) (<-chan domain.RefineResult, error) {
	out := make(chan domain.RefineResult, 64)

	go func() {
		defer close(out)
		lastID := "$"
		for {
			streams, err := q.rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{refineResultStream, lastID},
				Count:   64,
				Block:   5 * time.Second,
			}).Result()
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				if errors.Is(err, redis.Nil) {
					continue // block timeout, poll again
				}
				continue
			}
			for _, stream := range streams {
				for _, msg := range stream.Messages {
					lastID = msg.ID
					raw, ok := msg.Values["payload"].(string)
					if !ok {
						continue
					}
					var res domain.RefineResult
					if err := json.Unmarshal([]byte(raw), &res); err != nil {
						continue
					}
					select {
					case out <- res:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// Compile-time interface check.
var _ domain.RefineQueue = (*RefineQueue)(nil)
