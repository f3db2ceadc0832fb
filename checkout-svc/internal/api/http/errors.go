package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

type errorMapping struct {
	target error
	status int
	code   string
}

// First match wins. Backend errors also match ErrUpstream, and a failed
// confirmation wraps whatever the backend answered.
var errorMappings = []errorMapping{
	{service.ErrCompensationFailed, http.StatusBadGateway, "compensation_failed"},
	{service.ErrOrderNotConfirmed, http.StatusBadGateway, "order_not_confirmed"},

	{service.ErrRegisterNotFound, http.StatusNotFound, "register_not_found"},
	{service.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{service.ErrNoReceipt, http.StatusNotFound, "no_receipt"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},

	{service.ErrInvalidRegister, http.StatusBadRequest, "invalid_register"},
	{service.ErrInvalidMethod, http.StatusBadRequest, "invalid_method"},
	{service.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{service.ErrInvalidOrderCode, http.StatusBadRequest, "invalid_order_code"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{service.ErrInvalidTab, http.StatusBadRequest, "invalid_tab"},
	{service.ErrInvalidBarcode, http.StatusBadRequest, "invalid_barcode"},

	{service.ErrInsufficientPayment, http.StatusUnprocessableEntity, "insufficient_payment"},
	{service.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{service.ErrNoCustomerOrder, http.StatusUnprocessableEntity, "no_customer_order"},
	{domain.ErrRejected, http.StatusUnprocessableEntity, "rejected"},

	{service.ErrIllegalTransition, http.StatusConflict, "illegal_transition"},
	{service.ErrSubmissionPending, http.StatusConflict, "submission_pending"},
	{service.ErrTotalChanged, http.StatusConflict, "total_changed"},
	{service.ErrFlowOpen, http.StatusConflict, "payment_open"},
	{service.ErrScanInProgress, http.StatusConflict, "scan_in_progress"},

	{domain.ErrBackendUnavailable, http.StatusServiceUnavailable, "backend_unavailable"},
	{service.ErrOrderCreateFailed, http.StatusBadGateway, "order_create_failed"},
	{domain.ErrUpstream, http.StatusBadGateway, "backend_error"},
}

func respondServiceError(w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(w, m.status, m.code, err.Error())
			return
		}
	}
	log.Printf("ERROR: %v", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
