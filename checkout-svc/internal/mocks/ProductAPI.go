package mocks

import (
	context "context"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// ProductAPI is a mock type for the ProductAPI type
type ProductAPI struct {
	mock.Mock
}

// ProductByBarcode provides a mock function with given fields: ctx, barcode, geo
func (_m *ProductAPI) ProductByBarcode(ctx context.Context, barcode string, geo domain.GeoHint) (*domain.Product, error) {
	ret := _m.Called(ctx, barcode, geo)

	var r0 *domain.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Product)
	}

	return r0, ret.Error(1)
}

// NewProductAPI creates a new instance of ProductAPI. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewProductAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProductAPI {
	m := &ProductAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
