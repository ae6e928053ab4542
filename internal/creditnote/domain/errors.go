package domain

import "errors"

var (
	ErrInvalidID         = errors.New("invalid_credit_note_id")
	ErrNotFound          = errors.New("credit_note_not_found")
	ErrNothingToReturn   = errors.New("nothing_to_return")
	ErrNotOnInvoice      = errors.New("product_not_on_invoice")
	ErrExceedsReturnable = errors.New("exceeds_returnable_qty")
	ErrAlreadyCancelled  = errors.New("credit_note_already_cancelled")
)
