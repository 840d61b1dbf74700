package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMemoryCache(t *testing.T) *Cache {
	t.Helper()

	// An unresolvable address forces the in-memory fallback.
	logger := zap.NewNop().Sugar()
	cache, err := NewCache("invalid:6379", logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	require.True(t, cache.IsInMemoryMode())
	return cache
}

func TestCache_SetGet(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()

	type payload struct {
		Total   int  `json:"total"`
		HasMore bool `json:"hasMore"`
	}

	require.NoError(t, cache.Set(ctx, KeyQueryResult+":abc", payload{Total: 3, HasMore: true}, time.Minute))

	var got payload
	require.NoError(t, cache.Get(ctx, KeyQueryResult+":abc", &got))
	assert.Equal(t, payload{Total: 3, HasMore: true}, got)
}

func TestCache_MissAndDelete(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()

	var dest map[string]any
	assert.ErrorIs(t, cache.Get(ctx, "sd:missing", &dest), ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "sd:k", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "sd:k"))
	assert.ErrorIs(t, cache.Get(ctx, "sd:k", &dest), ErrCacheMiss)
}

func TestCache_TTLExpiry(t *testing.T) {
	cache := newMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "sd:ttl", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	var dest string
	assert.ErrorIs(t, cache.Get(ctx, "sd:ttl", &dest), ErrCacheMiss)
}
