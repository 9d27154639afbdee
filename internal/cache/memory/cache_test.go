package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solera-labs/estancia/internal/repository"
)

func TestCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewCache()
	defer cache.Close()

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), 0))

	got, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	require.NoError(t, cache.Delete(ctx, "key"))
	_, err = cache.Get(ctx, "key")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCacheTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewCache()
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "short", []byte("value"), 10*time.Millisecond))

	_, err := cache.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewCache()
	defer cache.Close()

	original := []byte("value")
	require.NoError(t, cache.Set(ctx, "key", original, 0))
	original[0] = 'X'

	got, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	got[0] = 'Y'
	again, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	cache := NewCache()
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())
}
