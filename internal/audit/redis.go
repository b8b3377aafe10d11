// Package audit records administrative operations against the scheduler.
// Job state itself lives in the managed service; the trail is the only
// local record of who changed what, and when.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Actions recorded in the trail.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
	ActionPaused  = "paused"
	ActionResumed = "resumed"
)

// Entry is one administrative operation.
type Entry struct {
	ID     string    `json:"id"`
	Actor  string    `json:"actor"` // requesting user's email
	Action string    `json:"action"`
	Job    string    `json:"job"`
	At     time.Time `json:"at"`
}

// Trail records entries. Implementations must be safe for concurrent use.
type Trail interface {
	Record(ctx context.Context, e Entry) error
}

// RedisTrail appends entries to a per-day Redis list with retention.
type RedisTrail struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisTrail wraps an existing Redis client. Retention defaults to 30
// days.
func NewRedisTrail(client *redis.Client, retention time.Duration) *RedisTrail {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &RedisTrail{client: client, retention: retention}
}

func (t *RedisTrail) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	key := buildKey(e.At)

	pipe := t.client.Pipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, t.retention)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func buildKey(t time.Time) string {
	return "audit:" + t.UTC().Format("20060102")
}

// NoopTrail discards entries. Used when Redis is not configured.
type NoopTrail struct{}

func (NoopTrail) Record(ctx context.Context, e Entry) error { return nil }
