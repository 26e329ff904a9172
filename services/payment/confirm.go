package payment

import (
	"context"
	"fmt"

	"aircare/models"
	"aircare/services/booking"
)

// ConfirmBooking marks bookingID paid and confirmed. It reports whether the
// booking changed, so callers notify the customer only once.
func ConfirmBooking(ctx context.Context, bookings booking.BookingService, bookingID, intentID string) (*models.Booking, bool, error) {
	b, err := bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	if b.PaymentStatus == models.PaymentCompleted {
		return b, false, nil
	}

	paid := models.PaymentCompleted
	confirmed := models.BookingConfirmed
	update := models.BookingUpdate{PaymentStatus: &paid, PaymentIntentID: &intentID}
	if b.Status == models.BookingPending {
		update.Status = &confirmed
	}
	if err := bookings.UpdateBooking(ctx, bookingID, update); err != nil {
		return nil, false, fmt.Errorf("failed to confirm booking %s: %w", bookingID, err)
	}

	b.PaymentStatus = paid
	b.PaymentIntentID = intentID
	if update.Status != nil {
		b.Status = confirmed
	}
	return b, true, nil
}

// FailBooking records a declined payment on bookingID.
func FailBooking(ctx context.Context, bookings booking.BookingService, bookingID string) error {
	b, err := bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.PaymentStatus == models.PaymentCompleted {
		return nil
	}
	failed := models.PaymentFailed
	return bookings.UpdateBooking(ctx, bookingID, models.BookingUpdate{PaymentStatus: &failed})
}
