package domain

import "errors"

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCreditLimit = errors.New("invalid_credit_limit")
	ErrDuplicateGSTIN     = errors.New("duplicate_gstin")
	ErrNotFound           = errors.New("not_found")
)
