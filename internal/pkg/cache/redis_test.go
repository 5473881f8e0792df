package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client, "gateway"), mr
}

func TestGenerateKey(t *testing.T) {
	c := NewRedisCache("localhost:0", "gateway")
	assert.Equal(t, "gateway:checkout:abc-123", c.GenerateKey("checkout", "abc-123"))
}

func TestSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.Set(ctx, "k", `{"total":"1580"}`, time.Minute))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"total":"1580"}`, got)
}

func TestReserveIsExclusive(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var (
		wg     sync.WaitGroup
		owners atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.Reserve(ctx, "k", time.Minute)
			assert.NoError(t, err)
			if ok {
				owners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), owners.Load())
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, Pending, got)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestDeleteReleasesReservation(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	ok, err := c.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))

	ok, err = c.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
