package analytics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestTrackerCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr := New(reg)

	tr.StepEntered("customer")
	tr.StepEntered("customer")
	tr.FlowExited("expired")
	tr.RecordOTP("sent")
	tr.RecordPayment("succeeded")

	assert.Equal(t, 2.0, counterValue(t, reg, "aircare_booking_flow_step_entered_total", "step", "customer"))
	assert.Equal(t, 1.0, counterValue(t, reg, "aircare_booking_flow_exit_total", "reason", "expired"))
	assert.Equal(t, 1.0, counterValue(t, reg, "aircare_otp_outcome_total", "outcome", "sent"))
	assert.Equal(t, 1.0, counterValue(t, reg, "aircare_payment_outcome_total", "outcome", "succeeded"))
}

func TestTrackerCloseAllowsRecreate(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).Close()

	assert.NotPanics(t, func() { New(reg) })
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker
	tr.StepEntered("service")
	tr.FlowExited("back")
	tr.RecordOTP("verified")
	tr.RecordPayment("declined")
	tr.Close()
}
