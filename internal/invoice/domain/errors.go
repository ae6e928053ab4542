package domain

import "errors"

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidPaymentMode  = errors.New("invalid_payment_mode")
	ErrCustomerRequired    = errors.New("customer_required")
	ErrAlreadyCancelled    = errors.New("already_cancelled")
	ErrInvoiceCancelled    = errors.New("invoice_cancelled")
	ErrUnknownProduct      = errors.New("unknown_product")
	ErrCreditLimitExceeded = errors.New("credit_limit_exceeded")
)
