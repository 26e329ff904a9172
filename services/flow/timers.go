package flow

import (
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d.
type TimerFactory func(d time.Duration, fn func()) Timer

// RealTimers schedules callbacks with time.AfterFunc.
func RealTimers(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Navigator is told when the session is about to expire and when the flow is left.
type Navigator interface {
	Warn(remaining time.Duration)
	Exit(reason ExitReason)
}

// StepTracker observes step entries and exits.
type StepTracker interface {
	StepEntered(step string)
	FlowExited(reason string)
}
