package customer

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnknownField      = errors.New("unknown form field")
	ErrMobileInvalid     = errors.New("enter a valid mobile number before requesting a code")
	ErrNoSuggestion      = errors.New("no email suggestion to apply")
	ErrPlaceIncomplete   = errors.New("selected place has no street or postal code")
	ErrPlacesUnavailable = errors.New("address lookup is not configured")
	ErrFormInvalid       = errors.New("customer form has invalid fields")
	ErrSubmitInProgress  = errors.New("customer form is already being submitted")
)

// FormError lists the field errors that blocked a submission.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return ErrFormInvalid.Error() + ": " + strings.Join(names, ", ")
}

func (e *FormError) Unwrap() error { return ErrFormInvalid }
