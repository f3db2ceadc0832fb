package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"sf-dashboard-pos/checkout-svc/internal/domain"
)

type CheckoutService struct {
	carts   *CartService
	orders  OrderAPI
	saga    *OrderSaga
	journal SaleJournal
	qr      ReceiptEncoder

	authDelay time.Duration
	lifetime  context.Context
	stop      context.CancelFunc

	mu        sync.RWMutex
	registers map[string]*register
	newID     func() string
	now       func() time.Time
}

func NewCheckoutService(carts *CartService, orders OrderAPI, saga *OrderSaga, journal SaleJournal, qr ReceiptEncoder, authDelay time.Duration) *CheckoutService {
	ctx, stop := context.WithCancel(context.Background())
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		saga:      saga,
		journal:   journal,
		qr:        qr,
		authDelay: authDelay,
		lifetime:  ctx,
		stop:      stop,
		registers: make(map[string]*register),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Shutdown closes every register and stops pending card authorizations.
func (s *CheckoutService) Shutdown() {
	s.mu.Lock()
	registers := s.registers
	s.registers = make(map[string]*register)
	s.mu.Unlock()

	for _, r := range registers {
		r.close()
	}
	s.stop()
}

func (s *CheckoutService) register(id string) (*register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.registers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegisterNotFound, id)
	}
	return r, nil
}

func (s *CheckoutService) OpenRegister(_ context.Context, branchID, employeeID int64) (*domain.RegisterInfo, error) {
	if branchID <= 0 || employeeID <= 0 {
		return nil, ErrInvalidRegister
	}
	r := newRegister(s.lifetime, s.newID(), branchID, employeeID, s.authDelay, s.now())

	s.mu.Lock()
	s.registers[r.info.ID] = r
	s.mu.Unlock()

	log.Printf("register %s opened: branch=%d employee=%d", r.info.ID, branchID, employeeID)
	return r.snapshot(), nil
}

func (s *CheckoutService) CloseRegister(registerID string) error {
	s.mu.Lock()
	r, ok := s.registers[registerID]
	delete(s.registers, registerID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRegisterNotFound, registerID)
	}

	r.close()
	s.carts.Forget(r.cartID())
	log.Printf("register %s closed", registerID)
	return nil
}

func (s *CheckoutService) Register(registerID string) (*domain.RegisterInfo, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	return r.snapshot(), nil
}

func (s *CheckoutService) Cart(ctx context.Context, registerID string) (*domain.CartView, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	return s.carts.View(ctx, r.cartID())
}

func (s *CheckoutService) ScanBarcode(ctx context.Context, registerID, barcode string, geo domain.GeoHint) (*domain.CartView, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.carts.Scan(ctx, r.cartID(), barcode, geo); err != nil {
		return nil, err
	}
	return s.carts.View(ctx, r.cartID())
}

func (s *CheckoutService) AddItem(ctx context.Context, registerID string, productID int64, quantity int) (*domain.CartView, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Add(ctx, r.cartID(), productID, quantity); err != nil {
		return nil, err
	}
	return s.carts.View(ctx, r.cartID())
}

func (s *CheckoutService) UpdateItem(ctx context.Context, registerID string, itemID int64, quantity int) (*domain.CartView, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.UpdateQuantity(ctx, r.cartID(), itemID, quantity); err != nil {
		return nil, err
	}
	return s.carts.View(ctx, r.cartID())
}

func (s *CheckoutService) RemoveItem(ctx context.Context, registerID string, itemID int64) (*domain.CartView, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Remove(ctx, r.cartID(), itemID); err != nil {
		return nil, err
	}
	return s.carts.View(ctx, r.cartID())
}

func (s *CheckoutService) EmptyCart(ctx context.Context, registerID string) error {
	r, err := s.register(registerID)
	if err != nil {
		return err
	}
	return s.carts.Empty(ctx, r.cartID())
}

func (s *CheckoutService) SwitchTab(registerID string, tab domain.Tab) (*domain.RegisterInfo, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	return r.setTab(tab)
}

// LoadCustomerOrder resolves a scanned or typed order code and makes the
// order the register's current customer order.
func (s *CheckoutService) LoadCustomerOrder(ctx context.Context, registerID, code string) (*domain.QROrderContext, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	if r.flow.IsOpen() {
		return nil, ErrFlowOpen
	}
	orderNumber, err := ParseOrderCode(code)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderNumber, err)
	}
	if err := r.setCustomerOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) PaymentState(registerID string) (domain.PaymentFlowState, error) {
	r, err := s.register(registerID)
	if err != nil {
		return domain.InitialPaymentFlowState(), err
	}
	return r.flow.State(), nil
}

func (s *CheckoutService) OpenPayment(ctx context.Context, registerID string) (domain.PaymentFlowState, error) {
	r, err := s.register(registerID)
	if err != nil {
		return domain.InitialPaymentFlowState(), err
	}
	tab, order := r.tab(), r.loadedOrder()
	settlement, err := s.settlementFor(r, tab, order)
	if err != nil {
		return r.flow.State(), err
	}
	state, err := r.flow.Open(ctx, settlement)
	if err != nil {
		return state, err
	}
	if !r.openedFor(tab, order) {
		return r.flow.State(), fmt.Errorf("%w: register switched tab while opening payment", ErrIllegalTransition)
	}
	return state, nil
}

func (s *CheckoutService) settlementFor(r *register, tab domain.Tab, order *domain.QROrderContext) (Settlement, error) {
	if tab == domain.TabCustomerOrders {
		if order == nil {
			return nil, ErrNoCustomerOrder
		}
		return &customerOrderSettlement{ref: r.ref(), order: order, orders: s.orders, saga: s.saga}, nil
	}
	return &posSettlement{ref: r.ref(), cartID: r.cartID(), carts: s.carts, saga: s.saga}, nil
}

func (s *CheckoutService) SelectPaymentMethod(ctx context.Context, registerID string, method domain.PaymentMethod) (domain.PaymentFlowState, error) {
	r, err := s.register(registerID)
	if err != nil {
		return domain.InitialPaymentFlowState(), err
	}
	return r.flow.SelectMethod(ctx, method)
}

func (s *CheckoutService) SetPaidAmount(registerID, amount string) (domain.PaymentFlowState, error) {
	r, err := s.register(registerID)
	if err != nil {
		return domain.InitialPaymentFlowState(), err
	}
	return r.flow.SetPaidAmount(amount)
}

func (s *CheckoutService) IssueInvoice(ctx context.Context, registerID string) (*domain.InvoiceResult, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	result, err := r.flow.IssueInvoice(ctx)
	if err != nil {
		return nil, err
	}
	if result.Receipt != nil {
		r.clearCustomerOrder(result.Receipt.OrderNumber)
	}
	return result, nil
}

func (s *CheckoutService) CancelPayment(registerID string) (domain.PaymentFlowState, error) {
	r, err := s.register(registerID)
	if err != nil {
		return domain.InitialPaymentFlowState(), err
	}
	return r.flow.Cancel()
}

func (s *CheckoutService) ReceiptQRCode(registerID string) ([]byte, error) {
	r, err := s.register(registerID)
	if err != nil {
		return nil, err
	}
	receipt := r.flow.Receipt()
	if receipt == nil {
		return nil, ErrNoReceipt
	}
	return s.qr.Generate(receipt.OrderNumber)
}

// DanglingOrders lists orders that were created remotely but neither
// confirmed nor voided.
func (s *CheckoutService) DanglingOrders(ctx context.Context) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return []domain.JournalEntry{}, nil
	}
	return s.journal.ListByStatus(ctx, domain.SaleStatusDangling)
}
