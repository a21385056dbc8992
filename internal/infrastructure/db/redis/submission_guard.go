package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultReplayTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed scorer can hold a key.
	pendingTTL = 30 * time.Second
	pending    = "pending"
)

// SubmissionGuard maps an Idempotency-Key to the result it produced.
// Key format: submit:<username>:<exam_id>:<idempotency_key>
//
// A key is first written as "pending" with SETNX, so exactly one concurrent
// submission wins the right to score; Complete then stores the result id.
type SubmissionGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmissionGuard wraps client. Completed keys expire after ttl (24h when
// ttl <= 0).
func NewSubmissionGuard(client *redis.Client, ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &SubmissionGuard{client: client, ttl: ttl}
}

// Reserve claims the key. When another submission holds it, the stored result
// id is returned, or "" while that submission is still pending.
func (g *SubmissionGuard) Reserve(ctx context.Context, username, examID, key string) (string, bool, error) {
	k := g.key(username, examID, key)

	ok, err := g.client.SetNX(ctx, k, pending, pendingTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("submission guard reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := g.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; the caller may retry
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("submission guard lookup: %w", err)
	}
	if id == pending {
		return "", false, nil
	}
	return id, false, nil
}

// Complete stores resultID for a reserved key and extends it to the replay TTL.
func (g *SubmissionGuard) Complete(ctx context.Context, username, examID, key, resultID string) error {
	if err := g.client.Set(ctx, g.key(username, examID, key), resultID, g.ttl).Err(); err != nil {
		return fmt.Errorf("submission guard complete: %w", err)
	}
	return nil
}

// Release drops a reservation so the key can be used again.
func (g *SubmissionGuard) Release(ctx context.Context, username, examID, key string) error {
	if err := g.client.Del(ctx, g.key(username, examID, key)).Err(); err != nil {
		return fmt.Errorf("submission guard release: %w", err)
	}
	return nil
}

func (g *SubmissionGuard) key(username, examID, key string) string {
	return fmt.Sprintf("submit:%s:%s:%s", username, examID, key)
}
