package domain

import "errors"

var (
	ErrEmptyCart       = errors.New("empty_cart")
	ErrInvalidLineItem = errors.New("invalid_line_item")
	ErrInvalidDiscount = errors.New("invalid_discount")
)
