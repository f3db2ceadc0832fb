package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

const (
	cacheWriteTimeout   = time.Second
	summaryFetchTimeout = 10 * time.Second
)

type cartEntry struct {
	mu       sync.Mutex
	version  atomic.Uint64
	scanning atomic.Bool
}

// CartService fronts the remote cart API. Mutations of one cart are
// serialized and each bumps the cart's version; the cached summary is only
// written when no mutation happened since the fetch started.
type CartService struct {
	carts    CartAPI
	products ProductAPI
	cache    SummaryCache

	sfg     singleflight.Group
	mu      sync.Mutex
	entries map[string]*cartEntry
}

func NewCartService(carts CartAPI, products ProductAPI, cache SummaryCache) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		cache:    cache,
		entries:  make(map[string]*cartEntry),
	}
}

func (s *CartService) entry(cartID string) *cartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[cartID]
	if !ok {
		e = &cartEntry{}
		s.entries[cartID] = e
	}
	return e
}

// Forget drops local bookkeeping for a cart.
func (s *CartService) Forget(cartID string) {
	s.mu.Lock()
	delete(s.entries, cartID)
	s.mu.Unlock()
}

func (s *CartService) Version(cartID string) uint64 {
	return s.entry(cartID).version.Load()
}

func (s *CartService) Summary(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	e := s.entry(cartID)
	version := e.version.Load()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cartID)
		if err == nil && cached.Version == version {
			return cached, nil
		}
		if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("cart %s: cache read failed: %v", cartID, err)
		}
	}

	key := fmt.Sprintf("%s@%d", cartID, version)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		// Shared by every waiter, so one caller going away must not fail the rest.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), summaryFetchTimeout)
		defer cancel()

		summary, err := s.carts.GetCartSummary(fetchCtx, cartID)
		if err != nil {
			return nil, fmt.Errorf("fetch cart summary: %w", err)
		}
		summary.Version = version
		s.storeIfCurrent(fetchCtx, e, cartID, summary)
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CartSummary), nil
}

func (s *CartService) storeIfCurrent(ctx context.Context, e *cartEntry, cartID string, summary *domain.CartSummary) {
	if s.cache == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version.Load() != summary.Version {
		return
	}
	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()
	if err := s.cache.Set(setCtx, cartID, summary); err != nil {
		log.Printf("cart %s: cache write failed: %v", cartID, err)
	}
}

// View is the summary together with totals and loyalty points.
func (s *CartService) View(ctx context.Context, cartID string) (*domain.CartView, error) {
	summary, err := s.Summary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &domain.CartView{
		CartSummary:   *summary,
		Totals:        domain.ComputeTotals(summary.Items),
		LoyaltyPoints: domain.LoyaltyPoints(summary.Items),
	}, nil
}

func (s *CartService) Add(ctx context.Context, cartID string, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.mutate(ctx, cartID, func(ctx context.Context) error {
		return s.carts.AddCartItem(ctx, cartID, productID, quantity)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, itemID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.mutate(ctx, cartID, func(ctx context.Context) error {
		return s.carts.UpdateCartItem(ctx, cartID, itemID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, cartID string, itemID int64) error {
	return s.mutate(ctx, cartID, func(ctx context.Context) error {
		return s.carts.RemoveCartItem(ctx, cartID, itemID)
	})
}

func (s *CartService) Empty(ctx context.Context, cartID string) error {
	return s.mutate(ctx, cartID, func(ctx context.Context) error {
		return s.carts.EmptyCart(ctx, cartID)
	})
}

// mutate runs op under the cart lock. The version is bumped and the cache
// dropped even when op fails, since the remote cart may have changed anyway.
func (s *CartService) mutate(ctx context.Context, cartID string, op func(context.Context) error) error {
	e := s.entry(cartID)
	e.mu.Lock()
	defer e.mu.Unlock()

	err := op(ctx)
	e.version.Add(1)
	s.invalidateCache(ctx, cartID)
	if err != nil {
		return fmt.Errorf("update cart %s: %w", cartID, err)
	}
	return nil
}

func (s *CartService) invalidateCache(ctx context.Context, cartID string) {
	if s.cache == nil {
		return
	}
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()
	if err := s.cache.Delete(delCtx, cartID); err != nil {
		log.Printf("cart %s: cache invalidation failed: %v", cartID, err)
	}
}

// Scan looks a product up by barcode and adds one unit of it. Only one scan
// per cart runs at a time.
func (s *CartService) Scan(ctx context.Context, cartID, barcode string, geo domain.GeoHint) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ErrInvalidBarcode
	}
	e := s.entry(cartID)
	if !e.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer e.scanning.Store(false)

	product, err := s.products.ProductByBarcode(ctx, barcode, geo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, barcode)
		}
		return nil, fmt.Errorf("lookup barcode %s: %w", barcode, err)
	}
	if err := s.Add(ctx, cartID, product.ID, 1); err != nil {
		return nil, err
	}
	return product, nil
}
