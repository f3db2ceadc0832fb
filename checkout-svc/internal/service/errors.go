package service

import "errors"

var (
	ErrRegisterNotFound    = errors.New("register not found")
	ErrInvalidRegister     = errors.New("branch_id and employee_id must be positive")
	ErrIllegalTransition   = errors.New("illegal payment step transition")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrInvalidAmount       = errors.New("invalid paid amount")
	ErrInsufficientPayment = errors.New("paid amount is less than total")
	ErrSubmissionPending   = errors.New("order submission already in progress")
	ErrTotalChanged        = errors.New("cart total changed since payment was opened")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrNoCustomerOrder     = errors.New("no customer order loaded")
	ErrInvalidOrderCode    = errors.New("invalid order code")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidTab          = errors.New("invalid tab")
	ErrFlowOpen            = errors.New("payment flow is open")
	ErrNoReceipt           = errors.New("no confirmed order on this register")

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidBarcode  = errors.New("barcode is required")
	ErrScanInProgress  = errors.New("a scan is already in progress")

	ErrOrderCreateFailed  = errors.New("order creation failed")
	ErrOrderNotConfirmed  = errors.New("order could not be confirmed")
	ErrCompensationFailed = errors.New("order could not be voided after failed confirmation")
)
