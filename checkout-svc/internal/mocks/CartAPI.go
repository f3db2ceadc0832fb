package mocks

import (
	context "context"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// CartAPI is a mock type for the CartAPI type
type CartAPI struct {
	mock.Mock
}

// AddCartItem provides a mock function with given fields: ctx, cartID, productID, quantity
func (_m *CartAPI) AddCartItem(ctx context.Context, cartID string, productID int64, quantity int) error {
	ret := _m.Called(ctx, cartID, productID, quantity)
	return ret.Error(0)
}

// EmptyCart provides a mock function with given fields: ctx, cartID
func (_m *CartAPI) EmptyCart(ctx context.Context, cartID string) error {
	ret := _m.Called(ctx, cartID)
	return ret.Error(0)
}

// GetCartSummary provides a mock function with given fields: ctx, cartID
func (_m *CartAPI) GetCartSummary(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	ret := _m.Called(ctx, cartID)

	var r0 *domain.CartSummary
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.CartSummary); ok {
		r0 = rf(ctx, cartID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.CartSummary)
	}

	return r0, ret.Error(1)
}

// RemoveCartItem provides a mock function with given fields: ctx, cartID, itemID
func (_m *CartAPI) RemoveCartItem(ctx context.Context, cartID string, itemID int64) error {
	ret := _m.Called(ctx, cartID, itemID)
	return ret.Error(0)
}

// UpdateCartItem provides a mock function with given fields: ctx, cartID, itemID, quantity
func (_m *CartAPI) UpdateCartItem(ctx context.Context, cartID string, itemID int64, quantity int) error {
	ret := _m.Called(ctx, cartID, itemID, quantity)
	return ret.Error(0)
}

// NewCartAPI creates a new instance of CartAPI. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewCartAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *CartAPI {
	m := &CartAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
