package payment

import "errors"

var (
	ErrMissingIdentifiers = errors.New("booking data is missing the service or customer details")
	ErrNotReady           = errors.New("payment is not ready")
	ErrInvalidTip         = errors.New("tip must not be negative")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMissingBooking     = errors.New("payment intent has no booking reference")
)
