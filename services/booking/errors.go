package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// DraftError reports a booking draft that cannot be persisted.
type DraftError struct {
	Field   string
	Message string
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("invalid booking draft: %s %s", e.Field, e.Message)
}

func newDraftError(field, msg string) error {
	return &DraftError{Field: field, Message: msg}
}
