package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by the backend client when the remote API answers 404.
	ErrNotFound = errors.New("not found")
	// ErrRejected covers 400/409/422 answers: the backend refused the request.
	ErrRejected           = errors.New("rejected by backend")
	ErrUpstream           = errors.New("backend request failed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrCacheMiss          = errors.New("cache miss")
)

type CartLine struct {
	CartItemID           int64           `json:"cart_item_id"`
	ProductID            int64           `json:"product_id"`
	Name                 string          `json:"name"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Quantity             int             `json:"quantity"`
	Barcode              string          `json:"barcode"`
	LoyaltyPointsPerItem int             `json:"loyalty_points_per_item"`
}

// CartSummary is the cart as last fetched from the remote cart service.
// Version is the local mutation count the summary was fetched at.
type CartSummary struct {
	Items   []CartLine `json:"items"`
	Version uint64     `json:"version"`
}

func (s *CartSummary) Empty() bool {
	return s == nil || len(s.Items) == 0
}

type CartView struct {
	CartSummary
	Totals        Totals `json:"totals"`
	LoyaltyPoints int    `json:"loyalty_points"`
}

type Product struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Barcode string          `json:"barcode"`
	Stock   int             `json:"stock"`
}

type GeoHint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (g GeoHint) IsZero() bool {
	return g.Latitude == 0 && g.Longitude == 0
}

type OrderDraftItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderDraft is the checkout payload assembled right before submission.
type OrderDraft struct {
	BranchID      int64            `json:"branch_id"`
	EmployeeID    int64            `json:"employee_id"`
	Status        string           `json:"status"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Total         decimal.Decimal  `json:"total"`
	PaidAmount    decimal.Decimal  `json:"paid_amount"`
	Change        decimal.Decimal  `json:"change"`
	Items         []OrderDraftItem `json:"items"`
}

const OrderStatusCompleted = "completed"

// NewOrderDraft builds a draft from a fetched summary. Totals are computed
// from the summary, never taken from the caller.
func NewOrderDraft(branchID, employeeID int64, summary *CartSummary, method PaymentMethod, paid decimal.Decimal) *OrderDraft {
	totals := ComputeTotals(summary.Items)
	items := make([]OrderDraftItem, 0, len(summary.Items))
	for _, line := range summary.Items {
		items = append(items, OrderDraftItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return &OrderDraft{
		BranchID:      branchID,
		EmployeeID:    employeeID,
		Status:        OrderStatusCompleted,
		PaymentMethod: method,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaidAmount:    paid,
		Change:        Change(paid, totals.Total),
		Items:         items,
	}
}

type QROrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// QROrderContext is a customer order fetched by its order number on the
// customer-orders tab.
type QROrderContext struct {
	OrderNumber string        `json:"order_number"`
	Items       []QROrderItem `json:"items"`
	Totals      OrderTotals   `json:"totals"`
}

type Receipt struct {
	OrderNumber   string          `json:"order_number"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Change        decimal.Decimal `json:"change"`
	ConfirmedAt   time.Time       `json:"confirmed_at"`
}

type RegisterInfo struct {
	ID         string    `json:"id"`
	BranchID   int64     `json:"branch_id"`
	EmployeeID int64     `json:"employee_id"`
	Tab        Tab       `json:"tab"`
	OpenedAt   time.Time `json:"opened_at"`
}

type Tab string

const (
	TabPOS            Tab = "pos"
	TabCustomerOrders Tab = "customer_orders"
)

func (t Tab) Valid() bool {
	return t == TabPOS || t == TabCustomerOrders
}

type SaleStatus string

const (
	SaleStatusCreated   SaleStatus = "created"
	SaleStatusConfirmed SaleStatus = "confirmed"
	SaleStatusVoided    SaleStatus = "voided"
	// SaleStatusDangling marks an order that was created remotely but could
	// be neither confirmed nor voided.
	SaleStatusDangling SaleStatus = "dangling"
)

type JournalEntry struct {
	OrderNumber   string          `json:"order_number"`
	RegisterID    string          `json:"register_id"`
	BranchID      int64           `json:"branch_id"`
	EmployeeID    int64           `json:"employee_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        SaleStatus      `json:"status"`
	Note          string          `json:"note,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

const (
	EventOrderConfirmed = "order_confirmed"
	EventOrderVoided    = "order_voided"
	EventOrderDangling  = "order_dangling"
)

type CheckoutEvent struct {
	Type          string          `json:"type"`
	OrderNumber   string          `json:"order_number"`
	RegisterID    string          `json:"register_id"`
	BranchID      int64           `json:"branch_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Reason        string          `json:"reason,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}
