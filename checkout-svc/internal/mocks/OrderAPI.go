package mocks

import (
	context "context"

	decimal "github.com/shopspring/decimal"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// OrderAPI is a mock type for the OrderAPI type
type OrderAPI struct {
	mock.Mock
}

// CreateOrder provides a mock function with given fields: ctx, draft
func (_m *OrderAPI) CreateOrder(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	ret := _m.Called(ctx, draft)
	return ret.String(0), ret.Error(1)
}

// GetOrder provides a mock function with given fields: ctx, orderNumber
func (_m *OrderAPI) GetOrder(ctx context.Context, orderNumber string) (*domain.QROrderContext, error) {
	ret := _m.Called(ctx, orderNumber)

	var r0 *domain.QROrderContext
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.QROrderContext)
	}

	return r0, ret.Error(1)
}

// VerifyOrder provides a mock function with given fields: ctx, orderNumber, paid, confirm
func (_m *OrderAPI) VerifyOrder(ctx context.Context, orderNumber string, paid decimal.Decimal, confirm bool) error {
	ret := _m.Called(ctx, orderNumber, paid, confirm)
	return ret.Error(0)
}

// VoidOrder provides a mock function with given fields: ctx, orderNumber, reason
func (_m *OrderAPI) VoidOrder(ctx context.Context, orderNumber string, reason string) error {
	ret := _m.Called(ctx, orderNumber, reason)
	return ret.Error(0)
}

// NewOrderAPI creates a new instance of OrderAPI. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewOrderAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderAPI {
	m := &OrderAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
