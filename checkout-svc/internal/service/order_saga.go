package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

const (
	compensationTimeout = 5 * time.Second
	voidReason          = "confirmation failed"
)

// SaleRef identifies who rang up a sale.
type SaleRef struct {
	RegisterID string
	BranchID   int64
	EmployeeID int64
}

// OrderSaga creates and confirms remote orders. If confirmation fails after
// the order was created, the order is voided so no unpaid order is left
// behind. Journal and publisher are optional.
type OrderSaga struct {
	orders    OrderAPI
	journal   SaleJournal
	publisher EventPublisher
	now       func() time.Time
}

func NewOrderSaga(orders OrderAPI, journal SaleJournal, publisher EventPublisher) *OrderSaga {
	return &OrderSaga{
		orders:    orders,
		journal:   journal,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *OrderSaga) Run(ctx context.Context, ref SaleRef, draft *domain.OrderDraft) (*domain.Receipt, error) {
	orderNumber, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrderCreateFailed, err)
	}

	entry := &domain.JournalEntry{
		OrderNumber:   orderNumber,
		RegisterID:    ref.RegisterID,
		BranchID:      ref.BranchID,
		EmployeeID:    ref.EmployeeID,
		PaymentMethod: draft.PaymentMethod,
		Total:         draft.Total,
		PaidAmount:    draft.PaidAmount,
	}
	s.record(ctx, entry, domain.SaleStatusCreated, "")

	if err := s.orders.VerifyOrder(ctx, orderNumber, draft.PaidAmount, true); err != nil {
		return nil, s.compensate(ctx, entry, err)
	}

	s.record(ctx, entry, domain.SaleStatusConfirmed, "")
	s.publish(ctx, entry, domain.EventOrderConfirmed, "")
	return s.receipt(entry), nil
}

// ConfirmExisting confirms an order created elsewhere, such as a customer
// order loaded from its QR code. Nothing is voided on failure since this
// service did not create the order.
func (s *OrderSaga) ConfirmExisting(ctx context.Context, ref SaleRef, orderNumber string, method domain.PaymentMethod, total, paid decimal.Decimal) (*domain.Receipt, error) {
	if err := s.orders.VerifyOrder(ctx, orderNumber, paid, true); err != nil {
		return nil, fmt.Errorf("%w: order %s: %w", ErrOrderNotConfirmed, orderNumber, err)
	}

	entry := &domain.JournalEntry{
		OrderNumber:   orderNumber,
		RegisterID:    ref.RegisterID,
		BranchID:      ref.BranchID,
		EmployeeID:    ref.EmployeeID,
		PaymentMethod: method,
		Total:         total,
		PaidAmount:    paid,
	}
	s.record(ctx, entry, domain.SaleStatusConfirmed, "customer order")
	s.publish(ctx, entry, domain.EventOrderConfirmed, "")
	return s.receipt(entry), nil
}

func (s *OrderSaga) compensate(ctx context.Context, entry *domain.JournalEntry, confirmErr error) error {
	// The caller may already be gone; the void must still go out.
	voidCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := s.orders.VoidOrder(voidCtx, entry.OrderNumber, voidReason); err != nil {
		log.Printf("saga: void of order %s failed: %v", entry.OrderNumber, err)
		note := fmt.Sprintf("confirm: %v; void: %v", confirmErr, err)
		s.record(voidCtx, entry, domain.SaleStatusDangling, note)
		s.publish(voidCtx, entry, domain.EventOrderDangling, note)
		return fmt.Errorf("%w: order %s: %w", ErrCompensationFailed, entry.OrderNumber, confirmErr)
	}

	log.Printf("saga: order %s voided after failed confirmation: %v", entry.OrderNumber, confirmErr)
	s.record(voidCtx, entry, domain.SaleStatusVoided, confirmErr.Error())
	s.publish(voidCtx, entry, domain.EventOrderVoided, confirmErr.Error())
	return fmt.Errorf("%w: order %s voided: %w", ErrOrderNotConfirmed, entry.OrderNumber, confirmErr)
}

func (s *OrderSaga) record(ctx context.Context, entry *domain.JournalEntry, status domain.SaleStatus, note string) {
	if s.journal == nil {
		return
	}
	entry.Status = status
	entry.Note = note
	entry.UpdatedAt = s.now()
	if err := s.journal.Record(ctx, entry); err != nil {
		log.Printf("saga: journal %s as %s: %v", entry.OrderNumber, status, err)
	}
}

func (s *OrderSaga) publish(ctx context.Context, entry *domain.JournalEntry, eventType, reason string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishCheckoutEvent(ctx, domain.CheckoutEvent{
		Type:          eventType,
		OrderNumber:   entry.OrderNumber,
		RegisterID:    entry.RegisterID,
		BranchID:      entry.BranchID,
		PaymentMethod: entry.PaymentMethod,
		Total:         entry.Total,
		PaidAmount:    entry.PaidAmount,
		Reason:        reason,
		Timestamp:     s.now(),
	})
	if err != nil {
		log.Printf("saga: publish %s for %s: %v", eventType, entry.OrderNumber, err)
	}
}

func (s *OrderSaga) receipt(entry *domain.JournalEntry) *domain.Receipt {
	return &domain.Receipt{
		OrderNumber:   entry.OrderNumber,
		PaymentMethod: entry.PaymentMethod,
		Total:         entry.Total,
		PaidAmount:    entry.PaidAmount,
		Change:        domain.Change(entry.PaidAmount, entry.Total),
		ConfirmedAt:   s.now(),
	}
}
