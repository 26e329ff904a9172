// Package analytics counts booking-flow activity as prometheus metrics.
package analytics

import "github.com/prometheus/client_golang/prometheus"

// Tracker is constructed once at startup and handed to the flow registry.
// A nil *Tracker ignores every call.
type Tracker struct {
	reg prometheus.Registerer

	stepsEntered *prometheus.CounterVec
	flowExits    *prometheus.CounterVec
	otpOutcomes  *prometheus.CounterVec
	payments     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Tracker {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	t := &Tracker{
		reg: reg,
		stepsEntered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircare",
			Subsystem: "booking_flow",
			Name:      "step_entered_total",
			Help:      "Booking wizard steps entered",
		}, []string{"step"}),
		flowExits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircare",
			Subsystem: "booking_flow",
			Name:      "exit_total",
			Help:      "Booking flows left before confirmation, by reason",
		}, []string{"reason"}),
		otpOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircare",
			Subsystem: "otp",
			Name:      "outcome_total",
			Help:      "OTP send and verify outcomes",
		}, []string{"outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircare",
			Subsystem: "payment",
			Name:      "outcome_total",
			Help:      "Payment step outcomes",
		}, []string{"outcome"}),
	}
	reg.MustRegister(t.collectors()...)
	return t
}

func (t *Tracker) collectors() []prometheus.Collector {
	return []prometheus.Collector{t.stepsEntered, t.flowExits, t.otpOutcomes, t.payments}
}

func (t *Tracker) StepEntered(step string) {
	if t == nil {
		return
	}
	t.stepsEntered.WithLabelValues(step).Inc()
}

func (t *Tracker) FlowExited(reason string) {
	if t == nil {
		return
	}
	t.flowExits.WithLabelValues(reason).Inc()
}

func (t *Tracker) RecordOTP(outcome string) {
	if t == nil {
		return
	}
	t.otpOutcomes.WithLabelValues(outcome).Inc()
}

func (t *Tracker) RecordPayment(outcome string) {
	if t == nil {
		return
	}
	t.payments.WithLabelValues(outcome).Inc()
}

// Close unregisters the tracker's collectors.
func (t *Tracker) Close() {
	if t == nil {
		return
	}
	for _, c := range t.collectors() {
		t.reg.Unregister(c)
	}
}
