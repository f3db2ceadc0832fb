package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/storage"
	"sf-dashboard-pos/config"
)

// fakePOSBackend is an in-memory stand-in for the remote POS REST API.
type fakePOSBackend struct {
	mu       sync.Mutex
	carts    map[string][]domain.CartLine
	products map[string]domain.Product
	drafts   []domain.OrderDraft
	verified []string
	nextItem int64
}

func newFakePOSBackend() *fakePOSBackend {
	return &fakePOSBackend{
		carts: make(map[string][]domain.CartLine),
		products: map[string]domain.Product{
			"6281000000017": {ID: 42, Name: "Water", Price: decimal.RequireFromString("2.50"), Barcode: "6281000000017"},
		},
	}
}

func (b *fakePOSBackend) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/carts/{cart}/summary", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeBody(w, http.StatusOK, map[string]interface{}{"items": b.carts[mux.Vars(req)["cart"]]})
	}).Methods("GET")
	r.HandleFunc("/carts/{cart}/items", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		}
		json.NewDecoder(req.Body).Decode(&body)

		b.mu.Lock()
		defer b.mu.Unlock()
		cart := mux.Vars(req)["cart"]
		for i, line := range b.carts[cart] {
			if line.ProductID == body.ProductID {
				b.carts[cart][i].Quantity += body.Quantity
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		for _, p := range b.products {
			if p.ID == body.ProductID {
				b.nextItem++
				b.carts[cart] = append(b.carts[cart], domain.CartLine{
					CartItemID: b.nextItem, ProductID: p.ID, Name: p.Name, UnitPrice: p.Price,
					Quantity: body.Quantity, Barcode: p.Barcode, LoyaltyPointsPerItem: 1,
				})
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeBody(w, http.StatusUnprocessableEntity, map[string]string{"message": "unknown product"})
	}).Methods("POST")
	r.HandleFunc("/carts/{cart}/empty", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.carts, mux.Vars(req)["cart"])
		w.WriteHeader(http.StatusNoContent)
	}).Methods("POST")
	r.HandleFunc("/products/barcode/{barcode}", func(w http.ResponseWriter, req *http.Request) {
		p, ok := b.products[mux.Vars(req)["barcode"]]
		if !ok {
			writeBody(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}
		writeBody(w, http.StatusOK, p)
	}).Methods("GET")
	r.HandleFunc("/orders/checkout", func(w http.ResponseWriter, req *http.Request) {
		var draft domain.OrderDraft
		json.NewDecoder(req.Body).Decode(&draft)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.drafts = append(b.drafts, draft)
		writeBody(w, http.StatusCreated, map[string]string{"order_number": fmt.Sprintf("ORD-%d", len(b.drafts))})
	}).Methods("POST")
	r.HandleFunc("/orders/verify", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			OrderNumber string `json:"order_number"`
		}
		json.NewDecoder(req.Body).Decode(&body)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.verified = append(b.verified, body.OrderNumber)
		writeBody(w, http.StatusOK, map[string]string{"status": "confirmed"})
	}).Methods("POST")
	return r
}

func writeBody(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type captureWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *captureWriter) keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var keys []string
	for _, m := range w.messages {
		keys = append(keys, string(m.Key))
	}
	return keys
}

type testApp struct {
	t       *testing.T
	router  http.Handler
	backend *fakePOSBackend
	events  *captureWriter
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	backend := newFakePOSBackend()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		HTTP:    config.HTTPConfig{RequestTimeout: 2 * time.Second},
		Backend: config.BackendConfig{URL: server.URL, Timeout: 2 * time.Second, MaxFailures: 5},
		Payment: config.PaymentConfig{AuthorizationDelay: 20 * time.Millisecond, ReceiptBaseURL: "https://pos.example.com"},
	}
	events := &captureWriter{}
	checkout, router := newApp(cfg, newBackendClient(cfg.Backend),
		storage.NewSummaryCache(rdb, time.Minute), nil, storage.NewKafkaPublisher(events))
	t.Cleanup(checkout.Shutdown)

	return &testApp{t: t, router: router, backend: backend, events: events}
}

func (a *testApp) call(method, path, body string, out interface{}) int {
	a.t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if out != nil && w.Code < http.StatusBadRequest {
		require.NoError(a.t, json.NewDecoder(w.Body).Decode(out))
	}
	return w.Code
}

func (a *testApp) openRegister() string {
	a.t.Helper()
	var info domain.RegisterInfo
	require.Equal(a.t, http.StatusCreated, a.call("POST", "/api/registers", `{"branch_id":1,"employee_id":2}`, &info))
	return info.ID
}

func TestHealthCheck(t *testing.T) {
	app := setupApp(t)

	var body map[string]interface{}
	assert.Equal(t, http.StatusOK, app.call("GET", "/health", "", &body))
	assert.Equal(t, "checkout-svc", body["service"])
}

func TestCashSaleEndToEnd(t *testing.T) {
	app := setupApp(t)
	id := app.openRegister()
	base := "/api/registers/" + id

	var view domain.CartView
	require.Equal(t, http.StatusOK, app.call("POST", base+"/cart/scan", `{"barcode":"6281000000017"}`, &view))
	require.Equal(t, http.StatusOK, app.call("POST", base+"/cart/scan", `{"barcode":"6281000000017"}`, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "5.75", view.Totals.Total.StringFixed(2))
	assert.Equal(t, 2, view.LoyaltyPoints)

	assert.Equal(t, http.StatusNotFound, app.call("POST", base+"/cart/scan", `{"barcode":"000"}`, nil))

	var state domain.PaymentFlowState
	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/open", "", &state))
	assert.Equal(t, domain.StepSelect, state.Step)
	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/method", `{"method":"cash"}`, &state))
	assert.Equal(t, domain.StepCash, state.Step)

	require.Equal(t, http.StatusOK, app.call("PUT", base+"/payment/paid-amount", `{"paid_amount":"5"}`, &state))
	assert.Equal(t, http.StatusUnprocessableEntity, app.call("POST", base+"/payment/invoice", "", nil))

	require.Equal(t, http.StatusOK, app.call("PUT", base+"/payment/paid-amount", `{"paid_amount":"10"}`, &state))
	var result domain.InvoiceResult
	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/invoice", "", &result))
	assert.Equal(t, domain.StepSuccess, result.State.Step)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, "ORD-1", result.Receipt.OrderNumber)
	assert.Equal(t, "4.25", result.Receipt.Change.StringFixed(2))

	require.Len(t, app.backend.drafts, 1)
	assert.Equal(t, "5.75", app.backend.drafts[0].Total.StringFixed(2))
	assert.Equal(t, domain.OrderStatusCompleted, app.backend.drafts[0].Status)
	assert.Equal(t, []string{"ORD-1"}, app.backend.verified)
	assert.Equal(t, []string{"ORD-1"}, app.events.keys())

	req := httptest.NewRequest("GET", base+"/receipt/qrcode", nil)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/invoice", "", &result))
	assert.Equal(t, domain.StepClosed, result.State.Step)

	require.Equal(t, http.StatusOK, app.call("GET", base+"/cart", "", &view))
	assert.Empty(t, view.Items)
}

func TestCardSaleEndToEnd(t *testing.T) {
	app := setupApp(t)
	id := app.openRegister()
	base := "/api/registers/" + id

	var view domain.CartView
	require.Equal(t, http.StatusOK, app.call("POST", base+"/cart/items", `{"product_id":42,"quantity":4}`, &view))
	assert.Equal(t, "11.50", view.Totals.Total.StringFixed(2))

	var state domain.PaymentFlowState
	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/open", "", &state))
	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/method", `{"method":"visa"}`, &state))
	assert.Equal(t, domain.StepProcessing, state.Step)

	assert.Eventually(t, func() bool {
		var s domain.PaymentFlowState
		app.call("GET", base+"/payment", "", &s)
		return s.Step == domain.StepSuccess
	}, time.Second, 10*time.Millisecond)

	var result domain.InvoiceResult
	require.Equal(t, http.StatusOK, app.call("POST", base+"/payment/invoice", "", &result))
	assert.Equal(t, domain.StepClosed, result.State.Step)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, domain.PaymentMethodVisa, result.Receipt.PaymentMethod)
	assert.Equal(t, "11.50", result.Receipt.PaidAmount.StringFixed(2))
}

func TestEmptyCartCannotOpenPayment(t *testing.T) {
	app := setupApp(t)
	id := app.openRegister()

	assert.Equal(t, http.StatusUnprocessableEntity, app.call("POST", "/api/registers/"+id+"/payment/open", "", nil))
	assert.Equal(t, http.StatusNotFound, app.call("GET", "/api/registers/missing/cart", "", nil))
}
