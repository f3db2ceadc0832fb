package mocks

import (
	context "context"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// SummaryCache is a mock type for the SummaryCache type
type SummaryCache struct {
	mock.Mock
}

// Delete provides a mock function with given fields: ctx, cartID
func (_m *SummaryCache) Delete(ctx context.Context, cartID string) error {
	ret := _m.Called(ctx, cartID)
	return ret.Error(0)
}

// Get provides a mock function with given fields: ctx, cartID
func (_m *SummaryCache) Get(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	ret := _m.Called(ctx, cartID)

	var r0 *domain.CartSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.CartSummary)
	}

	return r0, ret.Error(1)
}

// Set provides a mock function with given fields: ctx, cartID, summary
func (_m *SummaryCache) Set(ctx context.Context, cartID string, summary *domain.CartSummary) error {
	ret := _m.Called(ctx, cartID, summary)
	return ret.Error(0)
}

// NewSummaryCache creates a new instance of SummaryCache. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewSummaryCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *SummaryCache {
	m := &SummaryCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
