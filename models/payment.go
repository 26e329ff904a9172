package models

// PaymentPhase is the payment step's display state.
type PaymentPhase string

const (
	PaymentInitializing PaymentPhase = "initializing"
	PaymentReady        PaymentPhase = "ready"
	PaymentProcessing   PaymentPhase = "processing"
	PaymentSucceeded    PaymentPhase = "succeeded"
	PaymentFailedPhase  PaymentPhase = "failed"
)

// PaymentState is exposed to the browser to drive the payment surface.
type PaymentState struct {
	Status       PaymentPhase `json:"status"`
	ClientSecret string       `json:"clientSecret,omitempty"`
	Error        string       `json:"error,omitempty"`
	TipAmount    float64      `json:"tipAmount"`
	Amount       int64        `json:"amount"` // minor units
	Currency     string       `json:"currency,omitempty"`
	IntentID     string       `json:"intentId,omitempty"`
	BookingID    string       `json:"bookingId,omitempty"`
}

// PaymentIntentRequest crosses the payment-provider boundary in minor units.
type PaymentIntentRequest struct {
	Amount       int64
	Currency     string
	BookingID    string
	ServiceID    string
	CustomerID   string
	Description  string
	ReceiptEmail string
}

// PaymentIntent is the provider-side charge record.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	LastError    string
	Metadata     map[string]string
}
