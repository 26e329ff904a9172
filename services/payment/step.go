// Package payment implements the payment step of the booking flow: booking
// creation, the payment intent and reconciliation of its result.
package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"aircare/models"
	"aircare/services/booking"

	"go.uber.org/zap"
)

// SuccessFunc receives the payment reference once the charge succeeded.
type SuccessFunc func(intentID string)

// Step drives one mount of the payment step. Initialize creates at most one
// payment intent per Step; any failure before the intent exists is terminal.
type Step struct {
	mu          sync.Mutex
	state       models.PaymentState
	initialized bool
	busy        bool
	price       float64

	bookings  booking.BookingService
	provider  Provider
	notifier  Notifier
	recorder  Recorder
	onSuccess SuccessFunc
	logger    *zap.Logger
}

type StepOption func(*Step)

func WithNotifier(n Notifier) StepOption {
	return func(s *Step) { s.notifier = n }
}

func WithRecorder(r Recorder) StepOption {
	return func(s *Step) { s.recorder = r }
}

func WithOnSuccess(fn SuccessFunc) StepOption {
	return func(s *Step) { s.onSuccess = fn }
}

func NewStep(bookings booking.BookingService, provider Provider, currency string, logger *zap.Logger, opts ...StepOption) *Step {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Step{
		state:    models.PaymentState{Status: models.PaymentInitializing, Currency: strings.ToLower(currency)},
		bookings: bookings,
		provider: provider,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Step) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordPayment(outcome)
	}
}

func (s *Step) State() models.PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize creates (or reuses) the booking for data and requests a payment
// intent for its total. Once the intent exists, later calls bring the booking
// and the intent amount in line with data instead of creating another intent.
func (s *Step) Initialize(ctx context.Context, data models.BookingData) (models.PaymentState, error) {
	s.mu.Lock()
	if s.initialized {
		if s.busy || s.state.Status != models.PaymentReady {
			state := s.state
			s.mu.Unlock()
			return state, nil
		}
		return s.resync(ctx, data)
	}
	if data.ServiceID == "" || data.CustomerInfo == nil {
		state := s.state
		s.mu.Unlock()
		return state, ErrMissingIdentifiers
	}
	s.initialized = true
	s.busy = true
	if s.state.TipAmount == 0 {
		s.state.TipAmount = data.TipAmount
	}
	tip := s.state.TipAmount
	s.price = data.ServicePrice
	currency := s.state.Currency
	s.mu.Unlock()

	data.TipAmount = tip
	bookingID, err := s.ensureBooking(ctx, data)
	if err != nil {
		return s.fail(fmt.Errorf("could not save your booking: %w", err))
	}

	amount := ToMinorUnits(data.ServicePrice + tip)
	intent, err := s.provider.CreatePaymentIntent(ctx, models.PaymentIntentRequest{
		Amount:       amount,
		Currency:     currency,
		BookingID:    bookingID,
		ServiceID:    data.ServiceID,
		CustomerID:   strings.ToLower(data.CustomerInfo.Email),
		Description:  strings.TrimSpace(data.ServiceTitle + " " + data.Date + " " + data.Time),
		ReceiptEmail: data.CustomerInfo.Email,
	})
	if err != nil {
		return s.fail(fmt.Errorf("could not start the payment: %w", err))
	}

	if err := s.bookings.UpdateBooking(ctx, bookingID, models.BookingUpdate{PaymentIntentID: &intent.ID}); err != nil {
		s.logger.Warn("failed to attach payment intent to booking",
			zap.String("bookingId", bookingID), zap.String("intentId", intent.ID), zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.state.Status = models.PaymentReady
	s.state.ClientSecret = intent.ClientSecret
	s.state.IntentID = intent.ID
	s.state.BookingID = bookingID
	s.state.Amount = amount
	s.state.Error = ""
	s.logger.Info("payment intent created",
		zap.String("bookingId", bookingID), zap.String("intentId", intent.ID), zap.Int64("amount", amount))
	return s.state, nil
}

// resync is called with s.mu held and releases it.
func (s *Step) resync(ctx context.Context, data models.BookingData) (models.PaymentState, error) {
	if data.ServiceID == "" || data.CustomerInfo == nil {
		state := s.state
		s.mu.Unlock()
		return state, ErrMissingIdentifiers
	}
	s.busy = true
	data.BookingID = s.state.BookingID
	data.TipAmount = s.state.TipAmount
	intentID, current := s.state.IntentID, s.state.Amount
	s.mu.Unlock()

	if _, err := s.ensureBooking(ctx, data); err != nil {
		return s.fail(fmt.Errorf("could not update your booking: %w", err))
	}
	amount := ToMinorUnits(data.ServicePrice + data.TipAmount)
	if amount != current {
		if _, err := s.provider.UpdatePaymentIntentAmount(ctx, intentID, amount); err != nil {
			return s.fail(fmt.Errorf("could not update the payment amount: %w", err))
		}
		s.logger.Info("payment intent amount changed",
			zap.String("intentId", intentID), zap.Int64("from", current), zap.Int64("to", amount))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.price = data.ServicePrice
	s.state.Amount = amount
	s.state.Error = ""
	return s.state, nil
}

func (s *Step) ensureBooking(ctx context.Context, data models.BookingData) (string, error) {
	if data.BookingID == "" {
		return s.bookings.CreateBooking(ctx, data.Draft())
	}
	update := data.Draft().Update()
	if err := s.bookings.UpdateBooking(ctx, data.BookingID, update); err != nil {
		return "", err
	}
	return data.BookingID, nil
}

func (s *Step) fail(err error) (models.PaymentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.state.Status = models.PaymentFailedPhase
	s.state.ClientSecret = ""
	s.state.Error = err.Error()
	s.record("init_failed")
	s.logger.Error("payment step failed", zap.Error(err))
	return s.state, err
}

// SetTip changes the tip. Before initialization it only adjusts the pending
// total; afterwards the intent amount and the booking are updated.
func (s *Step) SetTip(ctx context.Context, amount float64) (models.PaymentState, error) {
	if amount < 0 {
		return s.State(), ErrInvalidTip
	}
	s.mu.Lock()
	if !s.initialized {
		s.state.TipAmount = amount
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	if s.busy || s.state.Status != models.PaymentReady {
		state := s.state
		s.mu.Unlock()
		return state, ErrNotReady
	}
	s.busy = true
	intentID, bookingID := s.state.IntentID, s.state.BookingID
	total := ToMinorUnits(s.price + amount)
	s.mu.Unlock()

	_, err := s.provider.UpdatePaymentIntentAmount(ctx, intentID, total)
	if err == nil {
		err = s.bookings.UpdateBooking(ctx, bookingID, models.BookingUpdate{TipAmount: &amount})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.state.Error = "We couldn't update the tip. Please try again."
		s.logger.Warn("tip update failed", zap.String("intentId", intentID), zap.Error(err))
		return s.state, err
	}
	s.state.TipAmount = amount
	s.state.Amount = total
	s.state.Error = ""
	return s.state, nil
}

// Reconcile reads the intent status after the customer confirmed the payment.
func (s *Step) Reconcile(ctx context.Context) (models.PaymentState, error) {
	s.mu.Lock()
	if s.busy || s.state.IntentID == "" {
		state := s.state
		s.mu.Unlock()
		return state, ErrNotReady
	}
	switch s.state.Status {
	case models.PaymentSucceeded, models.PaymentFailedPhase:
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	s.busy = true
	intentID := s.state.IntentID
	s.mu.Unlock()

	intent, err := s.provider.GetPaymentIntent(ctx, intentID)
	if err != nil {
		s.mu.Lock()
		s.busy = false
		s.state.Error = "We couldn't check your payment status. Please try again."
		state := s.state
		s.mu.Unlock()
		return state, err
	}

	switch intent.Status {
	case IntentSucceeded:
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		return s.Settle(ctx, intent.ID)
	case IntentProcessing:
		s.setStatus(models.PaymentProcessing, "")
	case IntentCanceled:
		s.setStatus(models.PaymentFailedPhase, "The payment was cancelled.")
	default:
		s.setStatus(models.PaymentReady, intent.LastError)
		if intent.LastError != "" {
			s.record("declined")
		}
	}
	return s.State(), nil
}

func (s *Step) setStatus(status models.PaymentPhase, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.state.Status = status
	s.state.Error = msg
}

// Settle applies a successful charge: the booking is confirmed, the
// customer notified once, and the success callback invoked.
func (s *Step) Settle(ctx context.Context, intentID string) (models.PaymentState, error) {
	s.mu.Lock()
	if s.state.Status == models.PaymentSucceeded {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	bookingID := s.state.BookingID
	s.mu.Unlock()

	b, changed, err := ConfirmBooking(ctx, s.bookings, bookingID, intentID)
	if err != nil {
		s.mu.Lock()
		s.state.Error = "Your payment went through but we couldn't confirm the booking yet. Please refresh."
		state := s.state
		s.mu.Unlock()
		s.logger.Error("booking confirmation failed", zap.String("bookingId", bookingID), zap.Error(err))
		return state, err
	}
	if changed && s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, *b)
	}

	s.mu.Lock()
	s.state.Status = models.PaymentSucceeded
	s.state.Error = ""
	s.state.ClientSecret = ""
	state := s.state
	onSuccess := s.onSuccess
	s.mu.Unlock()

	s.record("succeeded")
	if onSuccess != nil {
		onSuccess(intentID)
	}
	return state, nil
}

// Decline surfaces a provider-reported payment error and keeps the step
// ready for another attempt.
func (s *Step) Decline(msg string) models.PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == models.PaymentSucceeded || s.state.Status == models.PaymentFailedPhase {
		return s.state
	}
	if msg == "" {
		msg = "Your payment was declined. Please try another card."
	}
	s.state.Status = models.PaymentReady
	s.state.Error = msg
	s.record("declined")
	return s.state
}
