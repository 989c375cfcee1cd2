package cache

import (
	"context"
	"testing"
	"time"

	"crew-route-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(lat, lng float64) domain.GeocodeResult {
	return domain.GeocodeResult{
		Coordinates:      domain.Coordinates{Lat: lat, Lng: lng},
		FormattedAddress: "somewhere",
		PlaceID:          "p1",
		ProviderID:       "google",
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryGeocodeCache(2, 0)

	require.NoError(t, c.Put(ctx, "a", result(1, 1)))
	require.NoError(t, c.Put(ctx, "b", result(2, 2)))

	// touch a so b becomes the eviction candidate
	_, ok, _ := c.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, c.Put(ctx, "c", result(3, 3)))

	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok, "b should have been evicted")
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryCacheExpiresEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryGeocodeCache(10, 50*time.Millisecond)

	require.NoError(t, c.Put(ctx, "a", result(1, 1)))

	_, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "a")
		return !ok && c.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMemoryCacheZeroTTLKeepsEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryGeocodeCache(1, 0)

	require.NoError(t, c.Put(ctx, "a", result(1, 1)))
	time.Sleep(20 * time.Millisecond)

	_, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)

	require.NoError(t, c.Put(ctx, "b", result(2, 2)))
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok, "capacity of one evicts a")
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryGeocodeCache(10, 0)

	require.NoError(t, c.Put(ctx, "a", result(1, 1)))
	require.NoError(t, c.Put(ctx, "a", result(5, 5)))

	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5.0, got.Coordinates.Lat)
	assert.Equal(t, 1, c.Len())
}

func TestRedisCacheRoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisGeocodeCache(rdb, time.Hour)
	defer c.Close()

	ctx := context.Background()

	_, ok, err := c.Get(ctx, "1 main st")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "1 main st", result(34.05, -118.25)))

	got, ok, err := c.Get(ctx, "1 main st")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result(34.05, -118.25), got)
	assert.True(t, mr.Exists("geocode:1 main st"))

	mr.FastForward(2 * time.Hour)
	_, ok, err = c.Get(ctx, "1 main st")
	require.NoError(t, err)
	assert.False(t, ok)
}
