package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"aircare/services/booking"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	eventIntentSucceeded = "payment_intent.succeeded"
	eventIntentFailed    = "payment_intent.payment_failed"
)

// LiveSessions forwards settled payments to the flow session holding the booking.
type LiveSessions interface {
	PaymentSettled(ctx context.Context, bookingID, intentID string, succeeded bool, message string) bool
}

// WebhookHandler applies Stripe payment_intent events to bookings.
type WebhookHandler struct {
	Secret   string
	Bookings booking.BookingService
	Sessions LiveSessions
	Notifier Notifier
	Logger   *zap.Logger
}

// HandleWebhook verifies signature and applies the event in payload.
func (h *WebhookHandler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, h.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch string(event.Type) {
	case eventIntentSucceeded, eventIntentFailed:
	default:
		h.Logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		return nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("failed to decode payment intent: %w", err)
	}
	bookingID := pi.Metadata["bookingId"]
	if bookingID == "" {
		h.Logger.Warn("stripe event without booking reference", zap.String("eventId", event.ID), zap.String("intentId", pi.ID))
		return ErrMissingBooking
	}

	if string(event.Type) == eventIntentSucceeded {
		return h.succeeded(ctx, bookingID, pi.ID)
	}
	msg := ""
	if pi.LastPaymentError != nil {
		msg = pi.LastPaymentError.Msg
	}
	return h.failed(ctx, bookingID, pi.ID, msg)
}

func (h *WebhookHandler) succeeded(ctx context.Context, bookingID, intentID string) error {
	if h.Sessions != nil && h.Sessions.PaymentSettled(ctx, bookingID, intentID, true, "") {
		return nil
	}
	b, changed, err := ConfirmBooking(ctx, h.Bookings, bookingID, intentID)
	if err != nil {
		return err
	}
	h.Logger.Info("payment confirmed by webhook", zap.String("bookingId", bookingID), zap.String("intentId", intentID))
	if changed && h.Notifier != nil {
		h.Notifier.BookingConfirmed(ctx, *b)
	}
	return nil
}

func (h *WebhookHandler) failed(ctx context.Context, bookingID, intentID, msg string) error {
	if err := FailBooking(ctx, h.Bookings, bookingID); err != nil {
		return err
	}
	h.Logger.Info("payment failed", zap.String("bookingId", bookingID), zap.String("intentId", intentID), zap.String("reason", msg))
	if h.Sessions != nil {
		h.Sessions.PaymentSettled(ctx, bookingID, intentID, false, msg)
	}
	return nil
}
