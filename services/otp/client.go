// Package otp implements mobile/email verification for the customer form.
package otp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aircare/models"

	"go.uber.org/zap"
)

// Phase is the state of the verification machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSending   Phase = "sending"
	PhaseCodeSent  Phase = "codeSent"
	PhaseVerifying Phase = "verifying"
	PhaseVerified  Phase = "verified"
)

var transitions = map[Phase][]Phase{
	PhaseIdle:      {PhaseSending},
	PhaseSending:   {PhaseCodeSent, PhaseIdle},
	PhaseCodeSent:  {PhaseSending, PhaseVerifying},
	PhaseVerifying: {PhaseVerified, PhaseCodeSent},
	PhaseVerified:  {},
}

var (
	ErrNoVerification    = errors.New("no verification in progress, request a code first")
	ErrRequestInFlight   = errors.New("a verification request is already in progress")
	ErrAlreadyVerified   = errors.New("mobile number already verified")
	ErrCodeRequired      = errors.New("verification code is required")
	ErrInvalidTransition = errors.New("invalid verification state transition")
	ErrRejected          = errors.New("verification rejected")
	ErrReset             = errors.New("verification was reset while the request was in flight")
)

// Client is the per-form verification state machine. Reset returns it to idle.
type Client struct {
	mu       sync.Mutex
	provider Provider
	emails   EmailVerifier
	recorder Recorder
	widgetID string
	logger   *zap.Logger

	phase          Phase
	generation     int
	verificationID string
	phone          string
	otpErr         string

	emailVerified bool
	emailErr      string
}

type Option func(*Client)

// WithWidgetID sets the container id handed to the provider on send.
func WithWidgetID(id string) Option {
	return func(c *Client) { c.widgetID = id }
}

// WithRecorder reports send/verify outcomes.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func NewClient(provider Provider, emails EmailVerifier, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		provider: provider,
		emails:   emails,
		logger:   logger,
		widgetID: "recaptcha-container",
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transition must be called with c.mu held.
func (c *Client) transition(to Phase) error {
	for _, allowed := range transitions[c.phase] {
		if allowed == to {
			c.phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.phase, to)
}

func (c *Client) record(outcome string) {
	if c.recorder != nil {
		c.recorder.RecordOTP(outcome)
	}
}

// SendOTP requests a code for phone. On failure the machine returns to the
// state it was in before the request.
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	c.mu.Lock()
	switch c.phase {
	case PhaseSending, PhaseVerifying:
		c.mu.Unlock()
		return ErrRequestInFlight
	case PhaseVerified:
		c.mu.Unlock()
		return ErrAlreadyVerified
	}
	prior := c.phase
	if err := c.transition(PhaseSending); err != nil {
		c.mu.Unlock()
		return err
	}
	c.otpErr = ""
	gen := c.generation
	c.mu.Unlock()

	res, err := c.provider.SendOTP(ctx, phone, c.widgetID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrReset
	}
	if err != nil || !res.IsValid {
		c.phase = prior
		c.otpErr = failureMessage(res.Error, err, "Failed to send verification code. Please try again.")
		c.logger.Warn("otp send failed", zap.String("phone", maskPhone(phone)), zap.Error(err), zap.String("reason", res.Error))
		c.record("send_failed")
		return fmt.Errorf("%w: %s", ErrRejected, c.otpErr)
	}
	c.verificationID = res.VerificationID
	c.phone = phone
	c.phase = PhaseCodeSent
	c.record("sent")
	return nil
}

// VerifyOTP checks code against the outstanding verification. Without one
// the provider is never called.
func (c *Client) VerifyOTP(ctx context.Context, code string) error {
	c.mu.Lock()
	switch {
	case c.phase == PhaseSending || c.phase == PhaseVerifying:
		c.mu.Unlock()
		return ErrRequestInFlight
	case c.phase == PhaseVerified:
		c.mu.Unlock()
		return nil
	case c.verificationID == "":
		c.otpErr = "Please request a verification code first."
		c.mu.Unlock()
		return ErrNoVerification
	case code == "":
		c.otpErr = "Please enter the verification code."
		c.mu.Unlock()
		return ErrCodeRequired
	}
	if err := c.transition(PhaseVerifying); err != nil {
		c.mu.Unlock()
		return err
	}
	vid := c.verificationID
	c.otpErr = ""
	gen := c.generation
	c.mu.Unlock()

	res, err := c.provider.VerifyOTP(ctx, vid, code)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrReset
	}
	if err != nil || !res.IsValid {
		c.phase = PhaseCodeSent
		c.otpErr = failureMessage(res.Error, err, "Invalid verification code. Please try again.")
		c.record("verify_failed")
		return fmt.Errorf("%w: %s", ErrRejected, c.otpErr)
	}
	c.phase = PhaseVerified
	c.record("verified")
	return nil
}

// Reset returns the machine to idle and tears down any provider-side
// verification.
func (c *Client) Reset(ctx context.Context) {
	c.mu.Lock()
	vid := c.verificationID
	c.generation++
	c.phase = PhaseIdle
	c.verificationID = ""
	c.phone = ""
	c.otpErr = ""
	c.mu.Unlock()

	if vid == "" {
		return
	}
	if err := c.provider.Teardown(ctx, vid); err != nil {
		c.logger.Warn("otp teardown failed", zap.String("verificationId", vid), zap.Error(err))
	}
}

// ValidateEmail asks the email collaborator about email and records the verdict.
func (c *Client) ValidateEmail(ctx context.Context, email string) (EmailResult, error) {
	if c.emails == nil {
		return EmailResult{IsValid: true}, nil
	}
	res, err := c.emails.ValidateEmail(ctx, email)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.emailVerified = false
		c.emailErr = "We couldn't verify this email right now."
		return EmailResult{}, err
	}
	c.emailVerified = res.IsValid
	c.emailErr = res.Error
	return res, nil
}

// ClearEmail forgets the previous email verdict.
func (c *Client) ClearEmail() {
	c.mu.Lock()
	c.emailVerified = false
	c.emailErr = ""
	c.mu.Unlock()
}

func (c *Client) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// VerifiedPhone returns the phone proven by the last successful verification.
func (c *Client) VerifiedPhone() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phone, c.phase == PhaseVerified
}

func (c *Client) Snapshot() models.OTPState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.OTPState{
		Phase:            string(c.phase),
		IsValidating:     c.phase == PhaseSending || c.phase == PhaseVerifying,
		ShowOTPInput:     c.phase == PhaseCodeSent || c.phase == PhaseVerifying,
		VerificationID:   c.verificationID,
		OTPError:         c.otpErr,
		IsMobileVerified: c.phase == PhaseVerified,
		IsEmailVerified:  c.emailVerified,
		EmailError:       c.emailErr,
	}
}

func failureMessage(reason string, err error, fallback string) string {
	if reason != "" {
		return reason
	}
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return "Verification service timed out. Please try again."
	}
	return fallback
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
