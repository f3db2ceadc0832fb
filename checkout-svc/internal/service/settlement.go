package service

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

// posSettlement settles the register's own cart: the total is computed from
// the cart summary and the order is created then confirmed by the saga.
type posSettlement struct {
	ref    SaleRef
	cartID string
	carts  *CartService
	saga   *OrderSaga
}

func (p *posSettlement) Total(ctx context.Context) (decimal.Decimal, error) {
	summary, err := p.carts.Summary(ctx, p.cartID)
	if err != nil {
		return decimal.Zero, err
	}
	if summary.Empty() {
		return decimal.Zero, ErrEmptyCart
	}
	return domain.ComputeTotals(summary.Items).Total, nil
}

func (p *posSettlement) Settle(ctx context.Context, method domain.PaymentMethod, paid, expectedTotal decimal.Decimal) (*domain.Receipt, error) {
	summary, err := p.carts.Summary(ctx, p.cartID)
	if err != nil {
		return nil, err
	}
	if summary.Empty() {
		return nil, ErrEmptyCart
	}

	draft := domain.NewOrderDraft(p.ref.BranchID, p.ref.EmployeeID, summary, method, paid)
	if !draft.Total.Equal(expectedTotal) {
		return nil, fmt.Errorf("%w: expected %s, cart now %s", ErrTotalChanged, expectedTotal.StringFixed(2), draft.Total.StringFixed(2))
	}
	if draft.PaidAmount.LessThan(draft.Total) {
		return nil, ErrInsufficientPayment
	}

	receipt, err := p.saga.Run(ctx, p.ref, draft)
	if err != nil {
		return nil, err
	}

	if err := p.carts.Empty(ctx, p.cartID); err != nil {
		log.Printf("register %s: clear cart after order %s: %v", p.ref.RegisterID, receipt.OrderNumber, err)
	}
	return receipt, nil
}

// customerOrderSettlement confirms an order the customer placed elsewhere;
// its grand total is taken verbatim from the remote order.
type customerOrderSettlement struct {
	ref    SaleRef
	order  *domain.QROrderContext
	orders OrderAPI
	saga   *OrderSaga
}

func (c *customerOrderSettlement) Total(context.Context) (decimal.Decimal, error) {
	return c.order.Totals.GrandTotal, nil
}

func (c *customerOrderSettlement) Settle(ctx context.Context, method domain.PaymentMethod, paid, expectedTotal decimal.Decimal) (*domain.Receipt, error) {
	current, err := c.orders.GetOrder(ctx, c.order.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("reload order %s: %w", c.order.OrderNumber, err)
	}
	if !current.Totals.GrandTotal.Equal(expectedTotal) {
		c.order = current
		return nil, fmt.Errorf("%w: expected %s, order now %s", ErrTotalChanged, expectedTotal.StringFixed(2), current.Totals.GrandTotal.StringFixed(2))
	}
	if paid.LessThan(expectedTotal) {
		return nil, ErrInsufficientPayment
	}
	return c.saga.ConfirmExisting(ctx, c.ref, c.order.OrderNumber, method, expectedTotal, paid)
}
