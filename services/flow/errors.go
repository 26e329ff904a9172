package flow

import "errors"

var (
	ErrClosed             = errors.New("booking flow has ended")
	ErrServiceRequired    = errors.New("select a service to continue")
	ErrCustomerIncomplete = errors.New("complete your contact details to continue")
	ErrScheduleIncomplete = errors.New("choose a date and time to continue")
	ErrPaymentIncomplete  = errors.New("payment has not been completed")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidSlot        = errors.New("time must be in HH:MM format")
	ErrPastSlot           = errors.New("the selected slot is in the past")
	ErrSessionNotFound    = errors.New("booking session not found")
	ErrSessionExpired     = errors.New("booking session expired, please start again")
	ErrWrongStep          = errors.New("action is not available at the current step")
	ErrServiceInactive    = errors.New("service is not available")
	ErrAccountsDisabled   = errors.New("account creation is not available")
)
