package service

import (
	"context"

	"github.com/shopspring/decimal"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

type CheckoutServiceInterface interface {
	OpenRegister(ctx context.Context, branchID, employeeID int64) (*domain.RegisterInfo, error)
	CloseRegister(registerID string) error
	Register(registerID string) (*domain.RegisterInfo, error)

	Cart(ctx context.Context, registerID string) (*domain.CartView, error)
	ScanBarcode(ctx context.Context, registerID, barcode string, geo domain.GeoHint) (*domain.CartView, error)
	AddItem(ctx context.Context, registerID string, productID int64, quantity int) (*domain.CartView, error)
	UpdateItem(ctx context.Context, registerID string, itemID int64, quantity int) (*domain.CartView, error)
	RemoveItem(ctx context.Context, registerID string, itemID int64) (*domain.CartView, error)
	EmptyCart(ctx context.Context, registerID string) error

	SwitchTab(registerID string, tab domain.Tab) (*domain.RegisterInfo, error)
	LoadCustomerOrder(ctx context.Context, registerID, code string) (*domain.QROrderContext, error)

	PaymentState(registerID string) (domain.PaymentFlowState, error)
	OpenPayment(ctx context.Context, registerID string) (domain.PaymentFlowState, error)
	SelectPaymentMethod(ctx context.Context, registerID string, method domain.PaymentMethod) (domain.PaymentFlowState, error)
	SetPaidAmount(registerID, amount string) (domain.PaymentFlowState, error)
	IssueInvoice(ctx context.Context, registerID string) (*domain.InvoiceResult, error)
	CancelPayment(registerID string) (domain.PaymentFlowState, error)

	ReceiptQRCode(registerID string) ([]byte, error)
	DanglingOrders(ctx context.Context) ([]domain.JournalEntry, error)
}

// CartAPI is the remote cart service.
type CartAPI interface {
	GetCartSummary(ctx context.Context, cartID string) (*domain.CartSummary, error)
	AddCartItem(ctx context.Context, cartID string, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, cartID string, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, cartID string, itemID int64) error
	EmptyCart(ctx context.Context, cartID string) error
}

type ProductAPI interface {
	ProductByBarcode(ctx context.Context, barcode string, geo domain.GeoHint) (*domain.Product, error)
}

// OrderAPI is the remote order service. CreateOrder returns the assigned
// order number.
type OrderAPI interface {
	CreateOrder(ctx context.Context, draft *domain.OrderDraft) (string, error)
	VerifyOrder(ctx context.Context, orderNumber string, paid decimal.Decimal, confirm bool) error
	VoidOrder(ctx context.Context, orderNumber, reason string) error
	GetOrder(ctx context.Context, orderNumber string) (*domain.QROrderContext, error)
}

type SummaryCache interface {
	Get(ctx context.Context, cartID string) (*domain.CartSummary, error)
	Set(ctx context.Context, cartID string, summary *domain.CartSummary) error
	Delete(ctx context.Context, cartID string) error
}

type SaleJournal interface {
	Record(ctx context.Context, entry *domain.JournalEntry) error
	ListByStatus(ctx context.Context, status domain.SaleStatus) ([]domain.JournalEntry, error)
}

type EventPublisher interface {
	PublishCheckoutEvent(ctx context.Context, event domain.CheckoutEvent) error
}

type ReceiptEncoder interface {
	Generate(orderNumber string) ([]byte, error)
}

// Settlement supplies the amount owed and performs the submission for one
// payment flow. The POS tab and the customer-orders tab differ only here.
type Settlement interface {
	Total(ctx context.Context) (decimal.Decimal, error)
	Settle(ctx context.Context, method domain.PaymentMethod, paid, expectedTotal decimal.Decimal) (*domain.Receipt, error)
}

var (
	_ CheckoutServiceInterface = (*CheckoutService)(nil)
	_ ReceiptEncoder           = (*DefaultQRGenerator)(nil)
)
