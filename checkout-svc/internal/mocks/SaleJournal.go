package mocks

import (
	context "context"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// SaleJournal is a mock type for the SaleJournal type
type SaleJournal struct {
	mock.Mock
}

// ListByStatus provides a mock function with given fields: ctx, status
func (_m *SaleJournal) ListByStatus(ctx context.Context, status domain.SaleStatus) ([]domain.JournalEntry, error) {
	ret := _m.Called(ctx, status)

	var r0 []domain.JournalEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.JournalEntry)
	}

	return r0, ret.Error(1)
}

// Record provides a mock function with given fields: ctx, entry
func (_m *SaleJournal) Record(ctx context.Context, entry *domain.JournalEntry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

// NewSaleJournal creates a new instance of SaleJournal. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewSaleJournal(t interface {
	mock.TestingT
	Cleanup(func())
}) *SaleJournal {
	m := &SaleJournal{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
