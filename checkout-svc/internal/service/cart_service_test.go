package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/mocks"
	"sf-dashboard-pos/checkout-svc/internal/service"
)

func cartWith(lines ...domain.CartLine) *domain.CartSummary {
	return &domain.CartSummary{Items: lines}
}

func TestCartService_SummaryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit_skips_backend", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		cache := mocks.NewSummaryCache(t)
		cache.On("Get", ctx, "cart-1").Return(&domain.CartSummary{Items: []domain.CartLine{{ProductID: 1}}, Version: 0}, nil).Once()

		svc := service.NewCartService(carts, nil, cache)
		summary, err := svc.Summary(ctx, "cart-1")
		require.NoError(t, err)
		assert.Len(t, summary.Items, 1)
	})

	t.Run("miss_fetches_and_stores", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		cache := mocks.NewSummaryCache(t)
		cache.On("Get", ctx, "cart-1").Return(nil, domain.ErrCacheMiss).Once()
		carts.On("GetCartSummary", mock.Anything, "cart-1").Return(cartWith(domain.CartLine{ProductID: 2}), nil).Once()
		cache.On("Set", mock.Anything, "cart-1", mock.MatchedBy(func(s *domain.CartSummary) bool {
			return s.Version == 0 && len(s.Items) == 1
		})).Return(nil).Once()

		svc := service.NewCartService(carts, nil, cache)
		_, err := svc.Summary(ctx, "cart-1")
		require.NoError(t, err)
	})

	t.Run("stale_version_refetches", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		cache := mocks.NewSummaryCache(t)
		carts.On("AddCartItem", ctx, "cart-1", int64(5), 1).Return(nil).Once()
		cache.On("Delete", mock.Anything, "cart-1").Return(nil).Once()
		cache.On("Get", ctx, "cart-1").Return(&domain.CartSummary{Version: 0}, nil).Once()
		carts.On("GetCartSummary", mock.Anything, "cart-1").Return(cartWith(domain.CartLine{ProductID: 5, Quantity: 1}), nil).Once()
		cache.On("Set", mock.Anything, "cart-1", mock.MatchedBy(func(s *domain.CartSummary) bool { return s.Version == 1 })).Return(nil).Once()

		svc := service.NewCartService(carts, nil, cache)
		require.NoError(t, svc.Add(ctx, "cart-1", 5, 1))
		summary, err := svc.Summary(ctx, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), summary.Version)
	})

	t.Run("cache_errors_fall_back_to_backend", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		cache := mocks.NewSummaryCache(t)
		cache.On("Get", ctx, "cart-1").Return(nil, errors.New("redis down")).Once()
		carts.On("GetCartSummary", mock.Anything, "cart-1").Return(cartWith(), nil).Once()
		cache.On("Set", mock.Anything, "cart-1", mock.Anything).Return(errors.New("redis down")).Once()

		svc := service.NewCartService(carts, nil, cache)
		summary, err := svc.Summary(ctx, "cart-1")
		require.NoError(t, err)
		assert.True(t, summary.Empty())
	})
}

func TestCartService_FetchBeforeMutationNeverCached(t *testing.T) {
	ctx := context.Background()
	carts := mocks.NewCartAPI(t)
	cache := mocks.NewSummaryCache(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	cache.On("Get", mock.Anything, "cart-1").Return(nil, domain.ErrCacheMiss)
	carts.On("GetCartSummary", mock.Anything, "cart-1").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(cartWith(), nil).Once()
	carts.On("AddCartItem", mock.Anything, "cart-1", int64(9), 2).Return(nil).Once()
	cache.On("Delete", mock.Anything, "cart-1").Return(nil).Once()

	svc := service.NewCartService(carts, nil, cache)

	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, err := svc.Summary(ctx, "cart-1")
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), summary.Version)
	}()
	<-entered

	require.NoError(t, svc.Add(ctx, "cart-1", 9, 2))
	close(release)
	<-done

	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)

	carts.On("GetCartSummary", mock.Anything, "cart-1").Return(cartWith(domain.CartLine{ProductID: 9, Quantity: 2}), nil).Once()
	cache.On("Set", mock.Anything, "cart-1", mock.MatchedBy(func(s *domain.CartSummary) bool { return s.Version == 1 })).Return(nil).Once()

	summary, err := svc.Summary(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.Version)
	assert.Len(t, summary.Items, 1)
}

func TestCartService_ConcurrentMissesShareOneFetch(t *testing.T) {
	ctx := context.Background()
	carts := mocks.NewCartAPI(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	carts.On("GetCartSummary", mock.Anything, "cart-1").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(cartWith(domain.CartLine{ProductID: 1}), nil).Once()

	svc := service.NewCartService(carts, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Summary(ctx, "cart-1")
		assert.NoError(t, err)
	}()
	<-entered

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := svc.Summary(ctx, "cart-1")
			assert.NoError(t, err)
			assert.Len(t, summary.Items, 1)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	carts.AssertNumberOfCalls(t, "GetCartSummary", 1)
}

func TestCartService_SharedFetchOutlivesFirstCaller(t *testing.T) {
	carts := mocks.NewCartAPI(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var fetchCtx context.Context
	carts.On("GetCartSummary", mock.Anything, "cart-1").
		Run(func(args mock.Arguments) {
			fetchCtx = args.Get(0).(context.Context)
			close(entered)
			<-release
		}).
		Return(cartWith(domain.CartLine{ProductID: 1}), nil).Once()

	svc := service.NewCartService(carts, nil, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Summary(firstCtx, "cart-1")
		assert.NoError(t, err)
	}()
	<-entered

	go func() {
		defer wg.Done()
		summary, err := svc.Summary(context.Background(), "cart-1")
		assert.NoError(t, err)
		assert.Len(t, summary.Items, 1)
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	require.NoError(t, fetchCtx.Err())
	close(release)
	wg.Wait()

	carts.AssertNumberOfCalls(t, "GetCartSummary", 1)
}

func TestCartService_Mutations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		prepareMocks  func(carts *mocks.CartAPI)
		run           func(svc *service.CartService) error
		expectedError error
		version       uint64
	}{
		{
			name: "add",
			prepareMocks: func(carts *mocks.CartAPI) {
				carts.On("AddCartItem", ctx, "cart-1", int64(3), 2).Return(nil).Once()
			},
			run:     func(svc *service.CartService) error { return svc.Add(ctx, "cart-1", 3, 2) },
			version: 1,
		},
		{
			name: "update_quantity",
			prepareMocks: func(carts *mocks.CartAPI) {
				carts.On("UpdateCartItem", ctx, "cart-1", int64(11), 4).Return(nil).Once()
			},
			run:     func(svc *service.CartService) error { return svc.UpdateQuantity(ctx, "cart-1", 11, 4) },
			version: 1,
		},
		{
			name: "remove",
			prepareMocks: func(carts *mocks.CartAPI) {
				carts.On("RemoveCartItem", ctx, "cart-1", int64(11)).Return(nil).Once()
			},
			run:     func(svc *service.CartService) error { return svc.Remove(ctx, "cart-1", 11) },
			version: 1,
		},
		{
			name: "empty",
			prepareMocks: func(carts *mocks.CartAPI) {
				carts.On("EmptyCart", ctx, "cart-1").Return(nil).Once()
			},
			run:     func(svc *service.CartService) error { return svc.Empty(ctx, "cart-1") },
			version: 1,
		},
		{
			name:          "zero_quantity_rejected_locally",
			prepareMocks:  func(carts *mocks.CartAPI) {},
			run:           func(svc *service.CartService) error { return svc.Add(ctx, "cart-1", 3, 0) },
			expectedError: service.ErrInvalidQuantity,
			version:       0,
		},
		{
			name: "failed_mutation_still_bumps_version",
			prepareMocks: func(carts *mocks.CartAPI) {
				carts.On("AddCartItem", ctx, "cart-1", int64(3), 1).Return(domain.ErrRejected).Once()
			},
			run:           func(svc *service.CartService) error { return svc.Add(ctx, "cart-1", 3, 1) },
			expectedError: domain.ErrRejected,
			version:       1,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			carts := mocks.NewCartAPI(t)
			testCase.prepareMocks(carts)
			svc := service.NewCartService(carts, nil, nil)

			err := testCase.run(svc)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, testCase.version, svc.Version("cart-1"))
		})
	}
}

func TestCartService_Scan(t *testing.T) {
	ctx := context.Background()
	geo := domain.GeoHint{Latitude: 24.7, Longitude: 46.6}

	t.Run("success_adds_one_unit", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		products := mocks.NewProductAPI(t)
		products.On("ProductByBarcode", ctx, "6281000000017", geo).Return(&domain.Product{ID: 42, Name: "Water"}, nil).Once()
		carts.On("AddCartItem", ctx, "cart-1", int64(42), 1).Return(nil).Once()

		svc := service.NewCartService(carts, products, nil)
		product, err := svc.Scan(ctx, "cart-1", " 6281000000017 ", geo)
		require.NoError(t, err)
		assert.Equal(t, int64(42), product.ID)
	})

	t.Run("unknown_barcode_clears_scanning", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		products := mocks.NewProductAPI(t)
		products.On("ProductByBarcode", ctx, "000", geo).Return(nil, domain.ErrNotFound).Once()
		products.On("ProductByBarcode", ctx, "111", geo).Return(&domain.Product{ID: 1}, nil).Once()
		carts.On("AddCartItem", ctx, "cart-1", int64(1), 1).Return(nil).Once()

		svc := service.NewCartService(carts, products, nil)
		_, err := svc.Scan(ctx, "cart-1", "000", geo)
		assert.ErrorIs(t, err, service.ErrProductNotFound)

		_, err = svc.Scan(ctx, "cart-1", "111", geo)
		assert.NoError(t, err)
	})

	t.Run("blank_barcode", func(t *testing.T) {
		svc := service.NewCartService(mocks.NewCartAPI(t), mocks.NewProductAPI(t), nil)
		_, err := svc.Scan(ctx, "cart-1", "  ", geo)
		assert.ErrorIs(t, err, service.ErrInvalidBarcode)
	})

	t.Run("one_scan_at_a_time", func(t *testing.T) {
		carts := mocks.NewCartAPI(t)
		products := mocks.NewProductAPI(t)
		entered := make(chan struct{})
		release := make(chan struct{})
		products.On("ProductByBarcode", mock.Anything, "222", geo).
			Run(func(mock.Arguments) {
				close(entered)
				<-release
			}).
			Return(&domain.Product{ID: 2}, nil).Once()
		carts.On("AddCartItem", mock.Anything, "cart-1", int64(2), 1).Return(nil).Once()

		svc := service.NewCartService(carts, products, nil)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := svc.Scan(ctx, "cart-1", "222", geo)
			assert.NoError(t, err)
		}()
		<-entered

		_, err := svc.Scan(ctx, "cart-1", "333", geo)
		assert.ErrorIs(t, err, service.ErrScanInProgress)

		close(release)
		<-done
	})
}
