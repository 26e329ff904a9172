package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloneDoesNotShareSlices(t *testing.T) {
	d := NewBookingData()
	d.Brands = []string{"Daikin"}
	d.CustomerInfo = &CustomerInfo{FirstName: "Jon"}

	c := d.Clone()
	c.Brands[0] = "Mitsubishi"
	c.CustomerInfo.FirstName = "Ann"

	assert.Equal(t, "Daikin", d.Brands[0])
	assert.Equal(t, "Jon", d.CustomerInfo.FirstName)
}

func TestAppointment(t *testing.T) {
	b := Booking{Date: "2026-11-02", Time: "14:30"}
	at, ok := b.Appointment(time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 11, 2, 14, 30, 0, 0, time.UTC), at)

	_, ok = Booking{Date: "2026-11-02"}.Appointment(time.UTC)
	assert.False(t, ok)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jon Tan", CustomerInfo{FirstName: "Jon", LastName: "Tan"}.FullName())
	assert.Equal(t, "Tan", CustomerInfo{LastName: "Tan"}.FullName())
}
