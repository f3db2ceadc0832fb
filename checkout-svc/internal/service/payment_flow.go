package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

const DefaultAuthorizationDelay = 2 * time.Second

// PaymentFlow is the payment wizard of one register:
// closed -> select -> cash|processing -> success -> closed.
//
// All network calls run outside mu. While an order is being submitted the
// submitting flag blocks re-entry and cancel. Every reset bumps generation so
// that a pending card authorization or an in-flight submission started
// before the reset never writes state afterwards.
type PaymentFlow struct {
	mu         sync.Mutex
	state      domain.PaymentFlowState
	settlement Settlement
	receipt    *domain.Receipt

	lifetime   context.Context
	authDelay  time.Duration
	authCancel context.CancelFunc
	generation uint64
}

func NewPaymentFlow(lifetime context.Context, authDelay time.Duration) *PaymentFlow {
	if authDelay <= 0 {
		authDelay = DefaultAuthorizationDelay
	}
	return &PaymentFlow{
		state:     domain.InitialPaymentFlowState(),
		lifetime:  lifetime,
		authDelay: authDelay,
	}
}

func (f *PaymentFlow) State() domain.PaymentFlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *PaymentFlow) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Open
}

func (f *PaymentFlow) Receipt() *domain.Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt
}

// Open moves closed -> select and fetches the amount owed from settlement.
func (f *PaymentFlow) Open(ctx context.Context, settlement Settlement) (domain.PaymentFlowState, error) {
	f.mu.Lock()
	if !domain.CanTransitionTo(f.state.Step, domain.StepSelect) {
		state := f.state
		f.mu.Unlock()
		return state, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, state.Step, domain.StepSelect)
	}
	gen := f.generation
	f.mu.Unlock()

	total, err := settlement.Total(ctx)
	if err != nil {
		return f.State(), err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != gen || f.state.Step != domain.StepClosed {
		return f.state, fmt.Errorf("%w: payment flow changed while opening", ErrIllegalTransition)
	}
	f.settlement = settlement
	f.state = domain.PaymentFlowState{
		Open:   true,
		Step:   domain.StepSelect,
		Total:  total,
		Change: decimal.Zero,
	}
	return f.state, nil
}

// SelectMethod moves select -> cash or select -> processing. Choosing visa
// starts the simulated card authorization, which completes on its own after
// authDelay unless the flow is reset first.
func (f *PaymentFlow) SelectMethod(ctx context.Context, method domain.PaymentMethod) (domain.PaymentFlowState, error) {
	if !method.Valid() {
		return f.State(), fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	next := domain.StepCash
	if method == domain.PaymentMethodVisa {
		next = domain.StepProcessing
	}

	f.mu.Lock()
	if !domain.CanTransitionTo(f.state.Step, next) {
		state := f.state
		f.mu.Unlock()
		return state, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, state.Step, next)
	}
	gen := f.generation
	settlement := f.settlement
	f.mu.Unlock()

	total, err := settlement.Total(ctx)
	if err != nil {
		return f.State(), err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != gen || f.state.Step != domain.StepSelect {
		return f.state, fmt.Errorf("%w: payment flow changed while selecting method", ErrIllegalTransition)
	}
	f.state.Step = next
	f.state.PaymentMethod = method
	f.state.Total = total
	f.state.Change = domain.Change(parsePaid(f.state.PaidAmount), total)

	if method == domain.PaymentMethodVisa {
		authCtx, cancel := context.WithCancel(f.lifetime)
		f.authCancel = cancel
		go f.authorize(authCtx, gen)
	}
	return f.state, nil
}

func (f *PaymentFlow) authorize(ctx context.Context, gen uint64) {
	timer := time.NewTimer(f.authDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != gen || f.state.Step != domain.StepProcessing {
		return
	}
	f.state.Step = domain.StepSuccess
	if f.authCancel != nil {
		f.authCancel()
		f.authCancel = nil
	}
}

// SetPaidAmount records the cashier-entered amount while collecting cash.
// An empty string clears it.
func (f *PaymentFlow) SetPaidAmount(amount string) (domain.PaymentFlowState, error) {
	amount = strings.TrimSpace(amount)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Step != domain.StepCash {
		return f.state, fmt.Errorf("%w: paid amount can only be entered while collecting cash", ErrIllegalTransition)
	}
	paid := decimal.Zero
	if amount != "" {
		parsed, err := decimal.NewFromString(amount)
		if err != nil || parsed.IsNegative() {
			return f.state, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
		}
		paid = parsed
	}
	f.state.PaidAmount = amount
	f.state.Change = domain.Change(paid, f.state.Total)
	return f.state, nil
}

// IssueInvoice submits the sale.
//
// In cash the paid amount is validated locally first; on success the flow
// moves to success and shows the change. In success after a card
// authorization the order is submitted now with paid equal to the total and
// the flow closes. In success after cash it only closes.
func (f *PaymentFlow) IssueInvoice(ctx context.Context) (*domain.InvoiceResult, error) {
	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return nil, ErrSubmissionPending
	}

	switch {
	case f.state.Step == domain.StepCash:
		paid := parsePaid(f.state.PaidAmount)
		if paid.LessThan(f.state.Total) {
			f.mu.Unlock()
			return nil, fmt.Errorf("%w: paid %s, total %s", ErrInsufficientPayment, paid.StringFixed(2), f.state.Total.StringFixed(2))
		}
		return f.submit(ctx, domain.PaymentMethodCash, paid, domain.StepSuccess)

	case f.state.Step == domain.StepSuccess && f.state.PaymentMethod == domain.PaymentMethodVisa:
		return f.submit(ctx, domain.PaymentMethodVisa, f.state.Total, domain.StepClosed)

	case f.state.Step == domain.StepSuccess:
		receipt := f.receipt
		f.reset()
		state := f.state
		f.mu.Unlock()
		return &domain.InvoiceResult{State: state, Receipt: receipt}, nil

	default:
		step := f.state.Step
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot issue invoice in step %s", ErrIllegalTransition, step)
	}
}

// submit must be called with mu held; it releases it.
func (f *PaymentFlow) submit(ctx context.Context, method domain.PaymentMethod, paid decimal.Decimal, next domain.PaymentStep) (*domain.InvoiceResult, error) {
	f.state.Submitting = true
	gen := f.generation
	settlement := f.settlement
	total := f.state.Total
	f.mu.Unlock()

	receipt, err := settlement.Settle(ctx, method, paid, total)

	var refreshed *decimal.Decimal
	if errors.Is(err, ErrTotalChanged) {
		if t, terr := settlement.Total(ctx); terr == nil {
			refreshed = &t
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != gen {
		// Register was closed while submitting.
		if err != nil {
			return nil, err
		}
		return &domain.InvoiceResult{State: f.state, Receipt: receipt}, nil
	}
	f.state.Submitting = false

	if err != nil {
		if refreshed != nil {
			f.state.Total = *refreshed
			f.state.Change = domain.Change(parsePaid(f.state.PaidAmount), *refreshed)
		}
		return nil, err
	}

	f.receipt = receipt
	if next == domain.StepClosed {
		f.reset()
	} else {
		f.state.Step = next
		f.state.Change = domain.Change(paid, total)
	}
	log.Printf("register sale %s confirmed: method=%s total=%s", receipt.OrderNumber, method, total.StringFixed(2))
	return &domain.InvoiceResult{State: f.state, Receipt: receipt}, nil
}

// Cancel returns the flow to closed from any step without network calls.
func (f *PaymentFlow) Cancel() (domain.PaymentFlowState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Submitting {
		return f.state, ErrSubmissionPending
	}
	f.reset()
	return f.state, nil
}

// Close resets the flow unconditionally. Used when the register goes away.
func (f *PaymentFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *PaymentFlow) reset() {
	if f.authCancel != nil {
		f.authCancel()
		f.authCancel = nil
	}
	f.generation++
	f.settlement = nil
	f.state = domain.InitialPaymentFlowState()
}

func parsePaid(amount string) decimal.Decimal {
	paid, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero
	}
	return paid
}
