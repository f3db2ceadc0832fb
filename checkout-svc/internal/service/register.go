package service

import (
	"context"
	"sync"
	"time"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

// register is one cashier station. Its cart lives remotely under the
// register id; its payment flow and timers die with it.
type register struct {
	mu            sync.Mutex
	info          domain.RegisterInfo
	customerOrder *domain.QROrderContext

	flow   *PaymentFlow
	cancel context.CancelFunc
}

func newRegister(parent context.Context, id string, branchID, employeeID int64, authDelay time.Duration, now time.Time) *register {
	ctx, cancel := context.WithCancel(parent)
	return &register{
		info: domain.RegisterInfo{
			ID:         id,
			BranchID:   branchID,
			EmployeeID: employeeID,
			Tab:        domain.TabPOS,
			OpenedAt:   now,
		},
		flow:   NewPaymentFlow(ctx, authDelay),
		cancel: cancel,
	}
}

func (r *register) cartID() string {
	return r.info.ID
}

func (r *register) ref() SaleRef {
	return SaleRef{
		RegisterID: r.info.ID,
		BranchID:   r.info.BranchID,
		EmployeeID: r.info.EmployeeID,
	}
}

func (r *register) snapshot() *domain.RegisterInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	info := r.info
	return &info
}

func (r *register) tab() domain.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info.Tab
}

// setTab and setCustomerOrder check the flow and write under mu, lock order
// r.mu then flow.mu. OpenPayment re-checks under the same lock once the flow
// is open, so neither can slip in between.
func (r *register) setTab(tab domain.Tab) (*domain.RegisterInfo, error) {
	if !tab.Valid() {
		return nil, ErrInvalidTab
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.flow.IsOpen() {
		return nil, ErrFlowOpen
	}
	r.info.Tab = tab
	info := r.info
	return &info, nil
}

// openedFor reports whether the register still shows the tab and customer
// order a settlement was built from. Otherwise the flow is closed again.
func (r *register) openedFor(tab domain.Tab, order *domain.QROrderContext) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info.Tab == tab && (tab != domain.TabCustomerOrders || r.customerOrder == order) {
		return true
	}
	r.flow.Close()
	return false
}

func (r *register) loadedOrder() *domain.QROrderContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customerOrder
}

func (r *register) setCustomerOrder(order *domain.QROrderContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.flow.IsOpen() {
		return ErrFlowOpen
	}
	r.customerOrder = order
	if order != nil {
		r.info.Tab = domain.TabCustomerOrders
	}
	return nil
}

// clearCustomerOrder drops the loaded order once it has been confirmed.
func (r *register) clearCustomerOrder(orderNumber string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.customerOrder != nil && r.customerOrder.OrderNumber == orderNumber {
		r.customerOrder = nil
	}
}

func (r *register) close() {
	r.flow.Close()
	r.cancel()
}
