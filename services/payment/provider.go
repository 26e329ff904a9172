package payment

import (
	"context"
	"math"

	"aircare/models"
)

// Provider is the payment-intent API of the card processor.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (models.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (models.PaymentIntent, error)
	UpdatePaymentIntentAmount(ctx context.Context, id string, amount int64) (models.PaymentIntent, error)
}

// Notifier is told once about every booking whose payment completed.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking models.Booking)
}

// Recorder receives payment outcomes for metrics.
type Recorder interface {
	RecordPayment(outcome string)
}

// Intent statuses reported by the processor.
const (
	IntentSucceeded             = "succeeded"
	IntentProcessing            = "processing"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresConfirmation  = "requires_confirmation"
	IntentRequiresAction        = "requires_action"
	IntentCanceled              = "canceled"
)

// ToMinorUnits converts a dollar amount to cents.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
