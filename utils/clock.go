package utils

import "time"

// Clock allows injecting time into services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns a clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant (useful for tests).
type FixedClock struct {
	T time.Time
}

func (f FixedClock) Now() time.Time {
	return f.T
}

// Singapore is the business timezone for appointment dates and slots.
var Singapore = time.FixedZone("SGT", 8*60*60)
