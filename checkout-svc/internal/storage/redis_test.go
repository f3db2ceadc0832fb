package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/storage"
)

func setupTestRedis(t *testing.T) (*storage.SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewSummaryCache(client, time.Minute), mr
}

func TestSummaryCache_SetGetDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, "reg-1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	summary := &domain.CartSummary{
		Items: []domain.CartLine{{CartItemID: 1, ProductID: 10, Name: "Tea", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2}},
		Version: 3,
	}
	require.NoError(t, cache.Set(ctx, "reg-1", summary))

	ttl := mr.TTL("pos:cart-summary:reg-1")
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, time.Minute+12*time.Second)

	got, err := cache.Get(ctx, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Tea", got.Items[0].Name)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10")))

	require.NoError(t, cache.Delete(ctx, "reg-1"))
	_, err = cache.Get(ctx, "reg-1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestSummaryCache_Expiry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "reg-1", &domain.CartSummary{}))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "reg-1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestSummaryCache_CorruptValue(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("pos:cart-summary:reg-1", "not json"))

	_, err := cache.Get(context.Background(), "reg-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}

func TestSummaryCache_RedisDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "reg-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}
