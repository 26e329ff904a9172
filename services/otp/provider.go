package otp

import "context"

// SendResult is the provider's answer to a send request.
type SendResult struct {
	IsValid        bool   `json:"isValid"`
	VerificationID string `json:"verificationId,omitempty"`
	Error          string `json:"error,omitempty"`
}

// VerifyResult is the provider's answer to a code check.
type VerifyResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// EmailResult is the email-verification collaborator's verdict.
type EmailResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// Provider delivers and checks one-time codes. A returned error means the
// provider could not be reached; a rejected request is reported in the result.
type Provider interface {
	SendOTP(ctx context.Context, phone, widgetID string) (SendResult, error)
	VerifyOTP(ctx context.Context, verificationID, code string) (VerifyResult, error)
	Teardown(ctx context.Context, verificationID string) error
}

// EmailVerifier checks that an address can plausibly receive mail.
type EmailVerifier interface {
	ValidateEmail(ctx context.Context, email string) (EmailResult, error)
}

// Recorder receives OTP outcomes for metrics.
type Recorder interface {
	RecordOTP(outcome string)
}
