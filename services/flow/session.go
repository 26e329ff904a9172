package flow

import (
	"context"
	"sync"
	"time"

	"aircare/models"
	"aircare/services/account"
	"aircare/services/customer"
	"aircare/services/payment"
)

// Session bundles the controllers of one customer's pass through the wizard.
type Session struct {
	ID        string
	CreatedAt time.Time
	Flow      *Controller
	Form      *customer.Form

	mu         sync.Mutex
	payment    *payment.Step
	newPayment func() *payment.Step
	accounts   account.AccountService
}

// SessionState is the combined snapshot returned to the browser.
type SessionState struct {
	ID      string              `json:"id"`
	Flow    State               `json:"flow"`
	Form    customer.FormState  `json:"customer"`
	Payment models.PaymentState `json:"payment"`
}

func (s *Session) Payment() *payment.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

// remountPayment replaces a failed payment step so the next visit starts over.
func (s *Session) remountPayment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payment.State().Status == models.PaymentFailedPhase {
		s.payment = s.newPayment()
	}
}

func (s *Session) Snapshot() SessionState {
	return SessionState{
		ID:      s.ID,
		Flow:    s.Flow.Snapshot(),
		Form:    s.Form.Snapshot(),
		Payment: s.Payment().State(),
	}
}

func (s *Session) requireStep(step Step) error {
	if s.Flow.Closed() {
		return ErrClosed
	}
	if s.Flow.Step() != step {
		return ErrWrongStep
	}
	return nil
}

// Back retreats one step. Leaving a failed payment step discards it.
func (s *Session) Back() (Step, error) {
	leaving := s.Flow.Step()
	step, err := s.Flow.Back()
	if err == nil && leaving == StepPayment {
		s.remountPayment()
	}
	return step, err
}

// SubmitCustomer saves the customer details and advances past the customer step.
func (s *Session) SubmitCustomer(ctx context.Context) (string, error) {
	if err := s.requireStep(StepCustomer); err != nil {
		return "", err
	}
	id, err := s.Form.Submit(ctx, s.Flow.Data())
	if err != nil {
		return "", err
	}
	if _, err := s.Flow.Advance(); err != nil {
		return id, err
	}
	return id, nil
}

// InitPayment starts the payment step for the current booking data.
func (s *Session) InitPayment(ctx context.Context) (models.PaymentState, error) {
	if err := s.requireStep(StepPayment); err != nil {
		return s.Payment().State(), err
	}
	state, err := s.Payment().Initialize(ctx, s.Flow.Data())
	if err != nil {
		return state, err
	}
	if state.BookingID != "" {
		_, err = s.Flow.UpdateBookingData(models.BookingPatch{BookingID: &state.BookingID})
	}
	return state, err
}

func (s *Session) SetTip(ctx context.Context, amount float64) (models.PaymentState, error) {
	state, err := s.Payment().SetTip(ctx, amount)
	if err != nil {
		return state, err
	}
	_, err = s.Flow.UpdateBookingData(models.BookingPatch{TipAmount: &amount})
	return state, err
}

func (s *Session) Reconcile(ctx context.Context) (models.PaymentState, error) {
	if err := s.requireStep(StepPayment); err != nil {
		return s.Payment().State(), err
	}
	return s.Payment().Reconcile(ctx)
}

// CreateAccount saves a password for the customer of the confirmed booking.
func (s *Session) CreateAccount(ctx context.Context, password, confirm string) (*models.Account, error) {
	if s.accounts == nil {
		return nil, ErrAccountsDisabled
	}
	if err := s.requireStep(StepConfirmation); err != nil {
		return nil, err
	}
	data := s.Flow.Data()
	if data.CustomerInfo == nil {
		return nil, ErrCustomerIncomplete
	}
	return s.accounts.CreateAccount(ctx, *data.CustomerInfo, data.BookingID, password, confirm)
}
