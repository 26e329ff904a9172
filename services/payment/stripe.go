package payment

import (
	"context"
	"fmt"

	"aircare/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeProvider creates and reads payment intents through the Stripe API.
type StripeProvider struct {
	intents *paymentintent.Client
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{
		intents: &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.Context = ctx
	params.AddMetadata("bookingId", req.BookingID)
	params.AddMetadata("serviceId", req.ServiceID)
	params.AddMetadata("customerId", req.CustomerID)
	params.SetIdempotencyKey("booking-" + req.BookingID + fmt.Sprintf("-%d", req.Amount))

	pi, err := p.intents.New(params)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (p *StripeProvider) GetPaymentIntent(ctx context.Context, id string) (models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.intents.Get(id, params)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("stripe get payment intent %s: %w", id, err)
	}
	return fromStripe(pi), nil
}

func (p *StripeProvider) UpdatePaymentIntentAmount(ctx context.Context, id string, amount int64) (models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{Amount: stripe.Int64(amount)}
	params.Context = ctx
	pi, err := p.intents.Update(id, params)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("stripe update payment intent %s: %w", id, err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) models.PaymentIntent {
	out := models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
	if pi.LastPaymentError != nil {
		out.LastError = pi.LastPaymentError.Msg
	}
	return out
}
