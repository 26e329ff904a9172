package flow

import (
	"context"
	"sync"
	"time"

	"aircare/models"
	"aircare/services/account"
	"aircare/services/booking"
	"aircare/services/customer"
	"aircare/services/payment"
	"aircare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker observes flows and payments.
type Tracker interface {
	StepTracker
	payment.Recorder
}

// Dependencies are shared by every session of a Registry.
type Dependencies struct {
	Bookings    booking.BookingService
	Payments    payment.Provider
	NewVerifier func() customer.Verifier
	Places      customer.PlaceResolver
	Notifier    payment.Notifier
	Accounts    account.AccountService
	Tracker     Tracker
	Timers      TimerFactory
	WarnAfter   time.Duration
	ExpireAfter time.Duration
	Retention   time.Duration
	Currency    string
	Clock       utils.Clock
	Logger      *zap.Logger
}

// Registry holds the live sessions of this process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ended    map[string]endedSession
	deps     Dependencies
}

type endedSession struct {
	reason ExitReason
	at     time.Time
}

func NewRegistry(deps Dependencies) *Registry {
	if deps.Timers == nil {
		deps.Timers = RealTimers
	}
	if deps.WarnAfter == 0 {
		deps.WarnAfter = 15 * time.Minute
	}
	if deps.ExpireAfter == 0 {
		deps.ExpireAfter = 20 * time.Minute
	}
	if deps.Retention == 0 {
		deps.Retention = 2 * time.Hour
	}
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Registry{
		sessions: map[string]*Session{},
		ended:    map[string]endedSession{},
		deps:     deps,
	}
}

type sessionNavigator struct {
	registry *Registry
	id       string
}

func (n sessionNavigator) Warn(remaining time.Duration) {
	n.registry.deps.Logger.Info("booking session about to expire",
		zap.String("sessionId", n.id), zap.Duration("remaining", remaining))
}

func (n sessionNavigator) Exit(reason ExitReason) {
	n.registry.end(n.id, reason)
}

// Start creates a session at the service step.
func (r *Registry) Start() *Session {
	r.sweep()
	d := r.deps
	id := uuid.New().String()
	s := &Session{ID: id, CreatedAt: d.Clock.Now(), accounts: d.Accounts}

	opts := []Option{
		WithTimers(d.Timers),
		WithTimeouts(d.WarnAfter, d.ExpireAfter),
		WithClock(d.Clock),
		WithLogger(d.Logger.With(zap.String("sessionId", id))),
	}
	if d.Tracker != nil {
		opts = append(opts, WithTracker(d.Tracker))
	}
	s.Flow = NewController(sessionNavigator{registry: r, id: id}, opts...)

	s.Form = customer.NewForm(d.NewVerifier(), d.Bookings, d.Logger,
		customer.WithPlaces(d.Places),
		customer.WithOnSave(func(bookingID string, info models.CustomerInfo) {
			if _, err := s.Flow.UpdateBookingData(models.BookingPatch{CustomerInfo: &info, BookingID: &bookingID}); err != nil {
				d.Logger.Warn("customer details arrived after the flow ended", zap.String("sessionId", id))
			}
		}))

	s.newPayment = func() *payment.Step {
		stepOpts := []payment.StepOption{
			payment.WithOnSuccess(func(intentID string) {
				if _, err := s.Flow.CompletePayment(intentID); err != nil {
					d.Logger.Warn("payment settled after the flow ended", zap.String("sessionId", id))
				}
			}),
		}
		if d.Notifier != nil {
			stepOpts = append(stepOpts, payment.WithNotifier(d.Notifier))
		}
		if d.Tracker != nil {
			stepOpts = append(stepOpts, payment.WithRecorder(d.Tracker))
		}
		return payment.NewStep(d.Bookings, d.Payments, d.Currency, d.Logger, stepOpts...)
	}
	s.payment = s.newPayment()

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	d.Logger.Info("booking session started", zap.String("sessionId", id))
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	if e, ok := r.ended[id]; ok && e.reason == ReasonExpired {
		return nil, ErrSessionExpired
	}
	return nil, ErrSessionNotFound
}

func (r *Registry) end(id string, reason ExitReason) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.ended[id] = endedSession{reason: reason, at: r.deps.Clock.Now()}
	r.mu.Unlock()

	if ok {
		s.Form.ResetOTP(context.Background())
	}
	r.deps.Logger.Info("booking session ended", zap.String("sessionId", id), zap.String("reason", string(reason)))
}

// sweep drops sessions and tombstones older than the retention period.
// Confirmed sessions have no timers and are only removed here.
func (r *Registry) sweep() {
	cutoff := r.deps.Clock.Now().Add(-r.deps.Retention)
	var stale []*Session

	r.mu.Lock()
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	for id, e := range r.ended {
		if e.at.Before(cutoff) {
			delete(r.ended, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Flow.Close()
	}
}

// PaymentSettled hands a webhook result to the live session holding
// bookingID. It reports whether such a session existed.
func (r *Registry) PaymentSettled(ctx context.Context, bookingID, intentID string, succeeded bool, message string) bool {
	r.mu.Lock()
	var target *Session
	for _, s := range r.sessions {
		if s.Payment().State().BookingID == bookingID {
			target = s
			break
		}
	}
	r.mu.Unlock()
	if target == nil {
		return false
	}

	step := target.Payment()
	if !succeeded {
		step.Decline(message)
		return true
	}
	if _, err := step.Settle(ctx, intentID); err != nil {
		r.deps.Logger.Error("failed to settle live session payment", zap.String("bookingId", bookingID), zap.Error(err))
		return false
	}
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every session's timers.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = map[string]*Session{}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Flow.Close()
	}
}
