package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/service"
)

// SummaryCache keeps the last fetched cart summary per cart.
type SummaryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SummaryCache{Client: client, TTL: ttl}
}

func (c *SummaryCache) Get(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	data, err := c.Client.Get(ctx, summaryKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.CartSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal cart summary failed: %w", err)
	}
	return &summary, nil
}

func (c *SummaryCache) Set(ctx context.Context, cartID string, summary *domain.CartSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal cart summary failed: %w", err)
	}

	// Spread expiries so registers opened together do not refetch together.
	jitter := time.Duration(rand.Int63n(int64(c.TTL/5) + 1))
	if err := c.Client.Set(ctx, summaryKey(cartID), payload, c.TTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) Delete(ctx context.Context, cartID string) error {
	if err := c.Client.Del(ctx, summaryKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func summaryKey(cartID string) string {
	return "pos:cart-summary:" + cartID
}

var _ service.SummaryCache = (*SummaryCache)(nil)
