package domain

import "errors"

var ErrInvalidPeriod = errors.New("invalid_period")
