package models

// OTPState is the customer-facing view of the verification state machine.
type OTPState struct {
	Phase            string `json:"phase"`
	IsValidating     bool   `json:"isValidating"`
	ShowOTPInput     bool   `json:"showOTPInput"`
	VerificationID   string `json:"verificationId,omitempty"`
	OTPError         string `json:"otpError,omitempty"`
	IsMobileVerified bool   `json:"isMobileVerified"`
	IsEmailVerified  bool   `json:"isEmailVerified"`
	EmailError       string `json:"emailError,omitempty"`
}
