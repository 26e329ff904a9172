package flow

import (
	"sync"
	"time"

	"aircare/models"
	"aircare/utils"

	"go.uber.org/zap"
)

// State is the serialisable view of a flow.
type State struct {
	Step      Step               `json:"step"`
	StepIndex int                `json:"stepIndex"`
	Steps     []Step             `json:"steps"`
	Data      models.BookingData `json:"data"`
	Warning   bool               `json:"warning"`
	StartedAt time.Time          `json:"startedAt"`
	Closed    bool               `json:"closed"`
}

// Controller owns the current step and the accumulated booking data. The
// navigator is always called without the lock held.
type Controller struct {
	mu        sync.Mutex
	index     int
	data      models.BookingData
	warning   bool
	closed    bool
	startedAt time.Time

	timers      TimerFactory
	warnAfter   time.Duration
	expireAfter time.Duration
	warnTimer   Timer
	expiryTimer Timer
	generation  int

	nav     Navigator
	tracker StepTracker
	clock   utils.Clock
	logger  *zap.Logger
}

type Option func(*Controller)

func WithTimers(f TimerFactory) Option {
	return func(c *Controller) { c.timers = f }
}

// WithTimeouts sets the warning and expiry delays.
func WithTimeouts(warn, expire time.Duration) Option {
	return func(c *Controller) { c.warnAfter, c.expireAfter = warn, expire }
}

func WithTracker(t StepTracker) Option {
	return func(c *Controller) { c.tracker = t }
}

func WithClock(clock utils.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController starts a flow at the service step and arms its timers.
func NewController(nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		data:        models.NewBookingData(),
		timers:      RealTimers,
		warnAfter:   15 * time.Minute,
		expireAfter: 20 * time.Minute,
		nav:         nav,
		clock:       utils.SystemClock(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startedAt = c.clock.Now()

	c.mu.Lock()
	c.enterLocked()
	c.mu.Unlock()
	return c
}

func (c *Controller) current() Step {
	return Steps[c.index]
}

// enterLocked runs on every step change: it reports the step and rearms
// the timers, which stay off once the confirmation step is reached.
func (c *Controller) enterLocked() {
	c.stopTimersLocked()
	c.warning = false
	if c.tracker != nil {
		c.tracker.StepEntered(string(c.current()))
	}
	if c.current() == StepConfirmation {
		return
	}
	gen := c.generation
	c.warnTimer = c.timers(c.warnAfter, func() { c.onWarning(gen) })
	c.expiryTimer = c.timers(c.expireAfter, func() { c.onExpiry(gen) })
}

func (c *Controller) stopTimersLocked() {
	c.generation++
	if c.warnTimer != nil {
		c.warnTimer.Stop()
		c.warnTimer = nil
	}
	if c.expiryTimer != nil {
		c.expiryTimer.Stop()
		c.expiryTimer = nil
	}
}

func (c *Controller) onWarning(gen int) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.warning = true
	remaining := c.expireAfter - c.warnAfter
	c.mu.Unlock()

	if c.nav != nil {
		c.nav.Warn(remaining)
	}
}

func (c *Controller) onExpiry(gen int) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.logger.Info("booking flow expired", zap.String("step", string(c.Step())))
	c.exit(ReasonExpired)
}

// exit closes the flow and notifies the navigator once.
func (c *Controller) exit(reason ExitReason) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimersLocked()
	c.mu.Unlock()

	if c.tracker != nil {
		c.tracker.FlowExited(string(reason))
	}
	if c.nav != nil {
		c.nav.Exit(reason)
	}
}

// Next moves one step forward; at the last step it does nothing.
func (c *Controller) Next() (Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.current(), ErrClosed
	}
	c.nextLocked()
	return c.current(), nil
}

func (c *Controller) nextLocked() {
	if c.index < len(Steps)-1 {
		c.index++
		c.enterLocked()
	}
}

// Advance is Next guarded by the data each step must have produced. The
// check and the move happen under one lock so concurrent callers cannot both
// pass the same guard.
func (c *Controller) Advance() (Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClosed
	}
	if err := c.canLeaveLocked(); err != nil {
		return c.current(), err
	}
	c.nextLocked()
	return c.current(), nil
}

func (c *Controller) canLeaveLocked() error {
	d := c.data
	switch c.current() {
	case StepService:
		if d.ServiceID == "" {
			return ErrServiceRequired
		}
	case StepCustomer:
		if d.CustomerInfo == nil {
			return ErrCustomerIncomplete
		}
	case StepSchedule:
		if d.Date == "" || d.Time == "" {
			return ErrScheduleIncomplete
		}
	case StepPayment:
		if d.PaymentStatus != models.PaymentCompleted {
			return ErrPaymentIncomplete
		}
	}
	return nil
}

// Back moves one step backward. From the first step the flow is left.
func (c *Controller) Back() (Step, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	if c.index == 0 {
		step := c.current()
		c.mu.Unlock()
		c.exit(ReasonBack)
		return step, nil
	}
	c.index--
	c.enterLocked()
	step := c.current()
	c.mu.Unlock()
	return step, nil
}

// UpdateBookingData merges patch into the booking data. Brands and issues
// keep their previous value when the patch omits them.
func (c *Controller) UpdateBookingData(patch models.BookingPatch) (models.BookingData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.data.Clone(), ErrClosed
	}
	c.data = merge(c.data, patch)
	return c.data.Clone(), nil
}

func merge(d models.BookingData, p models.BookingPatch) models.BookingData {
	out := d.Clone()
	if p.ServiceID != nil {
		out.ServiceID = *p.ServiceID
	}
	if p.ServiceTitle != nil {
		out.ServiceTitle = *p.ServiceTitle
	}
	if p.ServicePrice != nil {
		out.ServicePrice = *p.ServicePrice
	}
	if p.ServiceDuration != nil {
		out.ServiceDuration = *p.ServiceDuration
	}
	if p.CustomerInfo != nil {
		ci := *p.CustomerInfo
		out.CustomerInfo = &ci
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.Time != nil {
		out.Time = *p.Time
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Brands != nil {
		out.Brands = append([]string{}, p.Brands...)
	}
	if p.Issues != nil {
		out.Issues = append([]string{}, p.Issues...)
	}
	if p.PaymentStatus != nil {
		out.PaymentStatus = *p.PaymentStatus
	}
	if p.TipAmount != nil {
		out.TipAmount = *p.TipAmount
	}
	if p.BookingID != nil {
		out.BookingID = *p.BookingID
	}
	if p.PaymentIntentID != nil {
		out.PaymentIntentID = *p.PaymentIntentID
	}
	if p.PushToken != nil {
		out.PushToken = *p.PushToken
	}
	out.TotalAmount = out.ServicePrice + out.TipAmount
	return out
}

// SelectService replaces the service snapshot wholesale.
func (c *Controller) SelectService(svc models.Service) (models.BookingData, error) {
	return c.UpdateBookingData(models.BookingPatch{
		ServiceID:       &svc.ID,
		ServiceTitle:    &svc.Title,
		ServicePrice:    &svc.Price,
		ServiceDuration: &svc.Duration,
	})
}

// SelectSchedule validates and stores the appointment date and slot.
func (c *Controller) SelectSchedule(date, slot string) (models.BookingData, error) {
	if err := CheckSlot(date, slot, c.clock.Now()); err != nil {
		return c.Data(), err
	}
	return c.UpdateBookingData(models.BookingPatch{Date: &date, Time: &slot})
}

// CompletePayment records the payment reference and, when the flow is on
// the payment step, moves on to the confirmation.
func (c *Controller) CompletePayment(intentID string) (models.BookingData, error) {
	paid := models.PaymentCompleted
	confirmed := models.BookingConfirmed

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.data.Clone(), ErrClosed
	}
	c.data = merge(c.data, models.BookingPatch{
		PaymentIntentID: &intentID,
		PaymentStatus:   &paid,
		Status:          &confirmed,
	})
	if c.current() == StepPayment {
		c.index++
		c.enterLocked()
	}
	return c.data.Clone(), nil
}

// Close stops the timers without notifying the navigator.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimersLocked()
}

// Cancel leaves the flow on the customer's request.
func (c *Controller) Cancel() {
	c.exit(ReasonCanceled)
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current()
}

func (c *Controller) Data() models.BookingData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Step:      c.current(),
		StepIndex: c.index,
		Steps:     Steps,
		Data:      c.data.Clone(),
		Warning:   c.warning,
		StartedAt: c.startedAt,
		Closed:    c.closed,
	}
}
