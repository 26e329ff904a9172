package booking

import (
	"context"

	"aircare/models"
)

// BookingService persists bookings created by the customer and payment steps.
type BookingService interface {
	CreateBooking(ctx context.Context, draft models.BookingDraft) (string, error)
	UpdateBooking(ctx context.Context, id string, update models.BookingUpdate) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
}
