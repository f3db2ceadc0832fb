package mocks

import (
	context "context"

	decimal "github.com/shopspring/decimal"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// Settlement is a mock type for the Settlement type
type Settlement struct {
	mock.Mock
}

// Settle provides a mock function with given fields: ctx, method, paid, expectedTotal
func (_m *Settlement) Settle(ctx context.Context, method domain.PaymentMethod, paid decimal.Decimal, expectedTotal decimal.Decimal) (*domain.Receipt, error) {
	ret := _m.Called(ctx, method, paid, expectedTotal)

	var r0 *domain.Receipt
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Receipt)
	}

	return r0, ret.Error(1)
}

// Total provides a mock function with given fields: ctx
func (_m *Settlement) Total(ctx context.Context) (decimal.Decimal, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(decimal.Decimal), ret.Error(1)
}

// NewSettlement creates a new instance of Settlement. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewSettlement(t interface {
	mock.TestingT
	Cleanup(func())
}) *Settlement {
	m := &Settlement{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
