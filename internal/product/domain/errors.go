package domain

import "errors"

var (
	ErrInvalidCode       = errors.New("invalid_code")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidRate       = errors.New("invalid_rate")
	ErrInvalidGSTRate    = errors.New("invalid_gst_rate")
	ErrInvalidStockDelta = errors.New("invalid_stock_delta")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrDuplicateCode     = errors.New("duplicate_code")
	ErrNotFound          = errors.New("not_found")
)
