// Package kv defines the small key-value contract the result cache falls
// back to when Redis is unreachable.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is not found or has expired.
var ErrNotFound = errors.New("not found")

// Store is the subset of Redis-style operations the cache needs.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl ...time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
