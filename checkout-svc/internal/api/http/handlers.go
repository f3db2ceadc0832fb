package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/service"
)

type Handler struct {
	Checkout service.CheckoutServiceInterface
	timeout  time.Duration
}

func NewHandler(checkout service.CheckoutServiceInterface, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		Checkout: checkout,
		timeout:  timeout,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/registers", h.openRegister).Methods("POST")
	r.HandleFunc("/api/registers/{id}", h.getRegister).Methods("GET")
	r.HandleFunc("/api/registers/{id}", h.closeRegister).Methods("DELETE")

	r.HandleFunc("/api/registers/{id}/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/registers/{id}/cart", h.emptyCart).Methods("DELETE")
	r.HandleFunc("/api/registers/{id}/cart/scan", h.scanBarcode).Methods("POST")
	r.HandleFunc("/api/registers/{id}/cart/items", h.addItem).Methods("POST")
	r.HandleFunc("/api/registers/{id}/cart/items/{itemId}", h.updateItem).Methods("PUT")
	r.HandleFunc("/api/registers/{id}/cart/items/{itemId}", h.removeItem).Methods("DELETE")

	r.HandleFunc("/api/registers/{id}/tab", h.switchTab).Methods("PUT")
	r.HandleFunc("/api/registers/{id}/customer-order", h.loadCustomerOrder).Methods("POST")

	r.HandleFunc("/api/registers/{id}/payment", h.paymentState).Methods("GET")
	r.HandleFunc("/api/registers/{id}/payment/open", h.openPayment).Methods("POST")
	r.HandleFunc("/api/registers/{id}/payment/method", h.selectMethod).Methods("POST")
	r.HandleFunc("/api/registers/{id}/payment/paid-amount", h.setPaidAmount).Methods("PUT")
	r.HandleFunc("/api/registers/{id}/payment/invoice", h.issueInvoice).Methods("POST")
	r.HandleFunc("/api/registers/{id}/payment/cancel", h.cancelPayment).Methods("POST")

	r.HandleFunc("/api/registers/{id}/receipt/qrcode", h.receiptQRCode).Methods("GET")
	r.HandleFunc("/api/journal/dangling", h.danglingOrders).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "checkout-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return false
	}
	return true
}

func registerID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func (h *Handler) openRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID   int64 `json:"branch_id"`
		EmployeeID int64 `json:"employee_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	info, err := h.Checkout.OpenRegister(r.Context(), req.BranchID, req.EmployeeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, info)
}

func (h *Handler) getRegister(w http.ResponseWriter, r *http.Request) {
	info, err := h.Checkout.Register(registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *Handler) closeRegister(w http.ResponseWriter, r *http.Request) {
	if err := h.Checkout.CloseRegister(registerID(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	view, err := h.Checkout.Cart(ctx, registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) emptyCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Checkout.EmptyCart(ctx, registerID(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) scanBarcode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode   string  `json:"barcode"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	geo := domain.GeoHint{Latitude: req.Latitude, Longitude: req.Longitude}
	view, err := h.Checkout.ScanBarcode(ctx, registerID(r), req.Barcode, geo)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	view, err := h.Checkout.AddItem(ctx, registerID(r), req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["itemId"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item id must be numeric")
		return 0, false
	}
	return id, true
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	view, err := h.Checkout.UpdateItem(ctx, registerID(r), id, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	view, err := h.Checkout.RemoveItem(ctx, registerID(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) switchTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab domain.Tab `json:"tab"`
	}
	if !decode(w, r, &req) {
		return
	}
	info, err := h.Checkout.SwitchTab(registerID(r), req.Tab)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *Handler) loadCustomerOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	order, err := h.Checkout.LoadCustomerOrder(ctx, registerID(r), req.Code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) paymentState(w http.ResponseWriter, r *http.Request) {
	state, err := h.Checkout.PaymentState(registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) openPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	state, err := h.Checkout.OpenPayment(ctx, registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) selectMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method domain.PaymentMethod `json:"method"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	state, err := h.Checkout.SelectPaymentMethod(ctx, registerID(r), req.Method)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// amountText takes a money amount sent either as a JSON string or a JSON
// number and keeps its literal text.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountText(n.String())
	return nil
}

func (h *Handler) setPaidAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaidAmount amountText `json:"paid_amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	state, err := h.Checkout.SetPaidAmount(registerID(r), string(req.PaidAmount))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) issueInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.Checkout.IssueInvoice(ctx, registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) cancelPayment(w http.ResponseWriter, r *http.Request) {
	state, err := h.Checkout.CancelPayment(registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) receiptQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Checkout.ReceiptQRCode(registerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) danglingOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	entries, err := h.Checkout.DanglingOrders(ctx)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
