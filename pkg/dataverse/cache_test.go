package dataverse_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(10)
	ctx := context.Background()

	entry := &dataverse.CacheEntry{
		Data:      []byte("token data"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, cache.Set(ctx, "key", entry))

	got, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.True(t, cache.Has(ctx, "key"))
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "missing")
	require.ErrorIs(t, err, dataverse.ErrCacheKeyNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(10)
	ctx := context.Background()

	entry := &dataverse.CacheEntry{
		Data:      []byte("stale"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	require.NoError(t, cache.Set(ctx, "key", entry))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, dataverse.ErrCacheEntryExpired)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestMemoryCache_Delete(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(10)
	ctx := context.Background()

	entry := &dataverse.CacheEntry{Data: []byte("data"), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Set(ctx, "key", entry))

	require.NoError(t, cache.Delete(ctx, "key"))
	assert.False(t, cache.Has(ctx, "key"))

	// Deleting a missing key is not an error.
	require.NoError(t, cache.Delete(ctx, "missing"))
}

func TestMemoryCache_Clear(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &dataverse.CacheEntry{Data: []byte("data"), ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("key%d", i), entry))
	}

	require.NoError(t, cache.Clear(ctx))

	for i := 0; i < 3; i++ {
		assert.False(t, cache.Has(ctx, fmt.Sprintf("key%d", i)))
	}
}

func TestMemoryCache_MaxSize(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(2)
	ctx := context.Background()

	// The entry closest to expiry gets evicted when the cache is full.
	soonest := &dataverse.CacheEntry{Data: []byte("a"), ExpiresAt: time.Now().Add(time.Minute)}
	later := &dataverse.CacheEntry{Data: []byte("b"), ExpiresAt: time.Now().Add(time.Hour)}
	newest := &dataverse.CacheEntry{Data: []byte("c"), ExpiresAt: time.Now().Add(2 * time.Hour)}

	require.NoError(t, cache.Set(ctx, "soonest", soonest))
	require.NoError(t, cache.Set(ctx, "later", later))
	require.NoError(t, cache.Set(ctx, "newest", newest))

	assert.False(t, cache.Has(ctx, "soonest"))
	assert.True(t, cache.Has(ctx, "later"))
	assert.True(t, cache.Has(ctx, "newest"))
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewMemoryCache(10)
	ctx := context.Background()

	expired := &dataverse.CacheEntry{Data: []byte("old"), ExpiresAt: time.Now().Add(-time.Minute)}
	live := &dataverse.CacheEntry{Data: []byte("new"), ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, cache.Set(ctx, "expired", expired))
	require.NoError(t, cache.Set(ctx, "live", live))

	cache.Cleanup()

	_, err := cache.Get(ctx, "expired")
	require.ErrorIs(t, err, dataverse.ErrCacheKeyNotFound)

	_, err = cache.Get(ctx, "live")
	require.NoError(t, err)
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := dataverse.NewNoOpCache()
	ctx := context.Background()

	entry := &dataverse.CacheEntry{Data: []byte("data"), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Set(ctx, "key", entry))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, dataverse.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))

	require.NoError(t, cache.Delete(ctx, "key"))
	require.NoError(t, cache.Clear(ctx))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config defaults to memory", func(t *testing.T) {
		t.Parallel()

		cache, err := dataverse.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &dataverse.MemoryCache{}, cache)
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		cache, err := dataverse.NewCacheFromConfig(&dataverse.CacheConfig{Type: dataverse.CacheTypeMemory})
		require.NoError(t, err)
		assert.IsType(t, &dataverse.MemoryCache{}, cache)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		cache, err := dataverse.NewCacheFromConfig(&dataverse.CacheConfig{Type: dataverse.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &dataverse.NoOpCache{}, cache)
	})

	t.Run("nats without config", func(t *testing.T) {
		t.Parallel()

		_, err := dataverse.NewCacheFromConfig(&dataverse.CacheConfig{Type: dataverse.CacheTypeNATS})
		require.ErrorIs(t, err, dataverse.ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := dataverse.NewCacheFromConfig(&dataverse.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, dataverse.ErrUnsupportedCacheType)
		assert.Contains(t, err.Error(), "redis")
	})
}
