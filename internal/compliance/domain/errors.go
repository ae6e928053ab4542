package domain

import "errors"

var (
	ErrInvalidVehicleFormat      = errors.New("invalid_vehicle_format")
	ErrInvalidRegistrationFormat = errors.New("invalid_registration_format")
	ErrInvalidHSNCode            = errors.New("invalid_hsn_code")
	ErrInvalidEwayBillNumber     = errors.New("invalid_eway_bill_number")
	ErrInvalidStateCode          = errors.New("invalid_state_code")
	ErrInvalidPINCode            = errors.New("invalid_pin_code")
	ErrInvalidTransportMode      = errors.New("invalid_transport_mode")
)
