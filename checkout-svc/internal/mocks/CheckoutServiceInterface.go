package mocks

import (
	context "context"

	domain "sf-dashboard-pos/checkout-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// CheckoutServiceInterface is a mock type for the CheckoutServiceInterface type
type CheckoutServiceInterface struct {
	mock.Mock
}

func (_m *CheckoutServiceInterface) registerInfo(ret mock.Arguments) (*domain.RegisterInfo, error) {
	var r0 *domain.RegisterInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.RegisterInfo)
	}
	return r0, ret.Error(1)
}

func (_m *CheckoutServiceInterface) cartView(ret mock.Arguments) (*domain.CartView, error) {
	var r0 *domain.CartView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.CartView)
	}
	return r0, ret.Error(1)
}

func (_m *CheckoutServiceInterface) flowState(ret mock.Arguments) (domain.PaymentFlowState, error) {
	var r0 domain.PaymentFlowState
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domain.PaymentFlowState)
	}
	return r0, ret.Error(1)
}

// AddItem provides a mock function with given fields: ctx, registerID, productID, quantity
func (_m *CheckoutServiceInterface) AddItem(ctx context.Context, registerID string, productID int64, quantity int) (*domain.CartView, error) {
	return _m.cartView(_m.Called(ctx, registerID, productID, quantity))
}

// CancelPayment provides a mock function with given fields: registerID
func (_m *CheckoutServiceInterface) CancelPayment(registerID string) (domain.PaymentFlowState, error) {
	return _m.flowState(_m.Called(registerID))
}

// Cart provides a mock function with given fields: ctx, registerID
func (_m *CheckoutServiceInterface) Cart(ctx context.Context, registerID string) (*domain.CartView, error) {
	return _m.cartView(_m.Called(ctx, registerID))
}

// CloseRegister provides a mock function with given fields: registerID
func (_m *CheckoutServiceInterface) CloseRegister(registerID string) error {
	ret := _m.Called(registerID)
	return ret.Error(0)
}

// DanglingOrders provides a mock function with given fields: ctx
func (_m *CheckoutServiceInterface) DanglingOrders(ctx context.Context) ([]domain.JournalEntry, error) {
	ret := _m.Called(ctx)

	var r0 []domain.JournalEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.JournalEntry)
	}

	return r0, ret.Error(1)
}

// EmptyCart provides a mock function with given fields: ctx, registerID
func (_m *CheckoutServiceInterface) EmptyCart(ctx context.Context, registerID string) error {
	ret := _m.Called(ctx, registerID)
	return ret.Error(0)
}

// IssueInvoice provides a mock function with given fields: ctx, registerID
func (_m *CheckoutServiceInterface) IssueInvoice(ctx context.Context, registerID string) (*domain.InvoiceResult, error) {
	ret := _m.Called(ctx, registerID)

	var r0 *domain.InvoiceResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.InvoiceResult)
	}

	return r0, ret.Error(1)
}

// LoadCustomerOrder provides a mock function with given fields: ctx, registerID, code
func (_m *CheckoutServiceInterface) LoadCustomerOrder(ctx context.Context, registerID string, code string) (*domain.QROrderContext, error) {
	ret := _m.Called(ctx, registerID, code)

	var r0 *domain.QROrderContext
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.QROrderContext)
	}

	return r0, ret.Error(1)
}

// OpenPayment provides a mock function with given fields: ctx, registerID
func (_m *CheckoutServiceInterface) OpenPayment(ctx context.Context, registerID string) (domain.PaymentFlowState, error) {
	return _m.flowState(_m.Called(ctx, registerID))
}

// OpenRegister provides a mock function with given fields: ctx, branchID, employeeID
func (_m *CheckoutServiceInterface) OpenRegister(ctx context.Context, branchID int64, employeeID int64) (*domain.RegisterInfo, error) {
	return _m.registerInfo(_m.Called(ctx, branchID, employeeID))
}

// PaymentState provides a mock function with given fields: registerID
func (_m *CheckoutServiceInterface) PaymentState(registerID string) (domain.PaymentFlowState, error) {
	return _m.flowState(_m.Called(registerID))
}

// ReceiptQRCode provides a mock function with given fields: registerID
func (_m *CheckoutServiceInterface) ReceiptQRCode(registerID string) ([]byte, error) {
	ret := _m.Called(registerID)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// Register provides a mock function with given fields: registerID
func (_m *CheckoutServiceInterface) Register(registerID string) (*domain.RegisterInfo, error) {
	return _m.registerInfo(_m.Called(registerID))
}

// RemoveItem provides a mock function with given fields: ctx, registerID, itemID
func (_m *CheckoutServiceInterface) RemoveItem(ctx context.Context, registerID string, itemID int64) (*domain.CartView, error) {
	return _m.cartView(_m.Called(ctx, registerID, itemID))
}

// ScanBarcode provides a mock function with given fields: ctx, registerID, barcode, geo
func (_m *CheckoutServiceInterface) ScanBarcode(ctx context.Context, registerID string, barcode string, geo domain.GeoHint) (*domain.CartView, error) {
	return _m.cartView(_m.Called(ctx, registerID, barcode, geo))
}

// SelectPaymentMethod provides a mock function with given fields: ctx, registerID, method
func (_m *CheckoutServiceInterface) SelectPaymentMethod(ctx context.Context, registerID string, method domain.PaymentMethod) (domain.PaymentFlowState, error) {
	return _m.flowState(_m.Called(ctx, registerID, method))
}

// SetPaidAmount provides a mock function with given fields: registerID, amount
func (_m *CheckoutServiceInterface) SetPaidAmount(registerID string, amount string) (domain.PaymentFlowState, error) {
	return _m.flowState(_m.Called(registerID, amount))
}

// SwitchTab provides a mock function with given fields: registerID, tab
func (_m *CheckoutServiceInterface) SwitchTab(registerID string, tab domain.Tab) (*domain.RegisterInfo, error) {
	return _m.registerInfo(_m.Called(registerID, tab))
}

// UpdateItem provides a mock function with given fields: ctx, registerID, itemID, quantity
func (_m *CheckoutServiceInterface) UpdateItem(ctx context.Context, registerID string, itemID int64, quantity int) (*domain.CartView, error) {
	return _m.cartView(_m.Called(ctx, registerID, itemID, quantity))
}

// NewCheckoutServiceInterface creates a new instance of CheckoutServiceInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewCheckoutServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CheckoutServiceInterface {
	m := &CheckoutServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
