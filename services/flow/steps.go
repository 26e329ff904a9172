// Package flow implements the booking wizard: the step sequence, the
// accumulated booking data, session timers and the registry of live sessions.
package flow

// Step is one screen of the booking wizard.
type Step string

const (
	StepService      Step = "service"
	StepCustomer     Step = "customer"
	StepSchedule     Step = "schedule"
	StepBooking      Step = "booking"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// Steps is the fixed order of the wizard.
var Steps = []Step{StepService, StepCustomer, StepSchedule, StepBooking, StepPayment, StepConfirmation}

// ExitReason tells the navigator why the flow was left.
type ExitReason string

const (
	ReasonBack     ExitReason = "back"
	ReasonExpired  ExitReason = "expired"
	ReasonCanceled ExitReason = "canceled"
)
