package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// BookingData is the state accumulated across the booking wizard.
type BookingData struct {
	ServiceID       string  `json:"serviceId,omitempty"`
	ServiceTitle    string  `json:"serviceTitle,omitempty"`
	ServicePrice    float64 `json:"servicePrice"`
	ServiceDuration int     `json:"serviceDuration"` // minutes

	CustomerInfo *CustomerInfo `json:"customerInfo,omitempty"`

	Date string `json:"date,omitempty"` // YYYY-MM-DD
	Time string `json:"time,omitempty"` // slot start, HH:MM

	Status        BookingStatus `json:"status"`
	Brands        []string      `json:"brands"`
	Issues        []string      `json:"issues"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TotalAmount   float64       `json:"totalAmount"`
	TipAmount     float64       `json:"tipAmount"`

	BookingID       string `json:"bookingId,omitempty"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	PushToken       string `json:"pushToken,omitempty"`
}

// NewBookingData returns the defaults a flow starts with.
func NewBookingData() BookingData {
	return BookingData{
		Status:        BookingPending,
		PaymentStatus: PaymentPending,
		Brands:        []string{},
		Issues:        []string{},
	}
}

// Clone returns a copy that shares no slices or pointers with d.
func (d BookingData) Clone() BookingData {
	out := d
	out.Brands = append([]string{}, d.Brands...)
	out.Issues = append([]string{}, d.Issues...)
	if d.CustomerInfo != nil {
		ci := *d.CustomerInfo
		out.CustomerInfo = &ci
	}
	return out
}

// Draft builds the booking-creation request for the current data.
func (d BookingData) Draft() BookingDraft {
	draft := BookingDraft{
		ServiceID:       d.ServiceID,
		ServiceTitle:    d.ServiceTitle,
		ServicePrice:    d.ServicePrice,
		ServiceDuration: d.ServiceDuration,
		Date:            d.Date,
		Time:            d.Time,
		Brands:          append([]string{}, d.Brands...),
		Issues:          append([]string{}, d.Issues...),
		TipAmount:       d.TipAmount,
		PushToken:       d.PushToken,
	}
	if d.CustomerInfo != nil {
		draft.Customer = *d.CustomerInfo
	}
	return draft
}

// BookingPatch is a partial update merged into BookingData. Nil fields keep
// their previous value.
type BookingPatch struct {
	ServiceID       *string        `json:"serviceId,omitempty"`
	ServiceTitle    *string        `json:"serviceTitle,omitempty"`
	ServicePrice    *float64       `json:"servicePrice,omitempty"`
	ServiceDuration *int           `json:"serviceDuration,omitempty"`
	CustomerInfo    *CustomerInfo  `json:"customerInfo,omitempty"`
	Date            *string        `json:"date,omitempty"`
	Time            *string        `json:"time,omitempty"`
	Status          *BookingStatus `json:"status,omitempty"`
	Brands          []string       `json:"brands,omitempty"`
	Issues          []string       `json:"issues,omitempty"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus,omitempty"`
	TipAmount       *float64       `json:"tipAmount,omitempty"`
	BookingID       *string        `json:"bookingId,omitempty"`
	PaymentIntentID *string        `json:"paymentIntentId,omitempty"`
	PushToken       *string        `json:"pushToken,omitempty"`
}

// BookingDraft is what the booking service needs to create a record.
type BookingDraft struct {
	ServiceID       string       `json:"serviceId"`
	ServiceTitle    string       `json:"serviceTitle"`
	ServicePrice    float64      `json:"servicePrice"`
	ServiceDuration int          `json:"serviceDuration"`
	Customer        CustomerInfo `json:"customer"`
	Date            string       `json:"date"`
	Time            string       `json:"time"`
	Brands          []string     `json:"brands"`
	Issues          []string     `json:"issues"`
	TipAmount       float64      `json:"tipAmount"`
	PushToken       string       `json:"pushToken,omitempty"`
}

// Update returns the update that rewrites a saved booking with the draft's
// service, customer, schedule and details.
func (d BookingDraft) Update() BookingUpdate {
	customer := d.Customer
	tip := d.TipAmount
	u := BookingUpdate{
		ServiceID:       &d.ServiceID,
		ServiceTitle:    &d.ServiceTitle,
		ServicePrice:    &d.ServicePrice,
		ServiceDuration: &d.ServiceDuration,
		Customer:        &customer,
		Date:            &d.Date,
		Time:            &d.Time,
		Brands:          append([]string{}, d.Brands...),
		Issues:          append([]string{}, d.Issues...),
		TipAmount:       &tip,
	}
	if d.PushToken != "" {
		u.PushToken = &d.PushToken
	}
	return u
}

// BookingUpdate is a partial update of a persisted booking.
type BookingUpdate struct {
	ServiceID       *string        `json:"serviceId,omitempty"`
	ServiceTitle    *string        `json:"serviceTitle,omitempty"`
	ServicePrice    *float64       `json:"servicePrice,omitempty"`
	ServiceDuration *int           `json:"serviceDuration,omitempty"`
	Customer        *CustomerInfo  `json:"customer,omitempty"`
	Date            *string        `json:"date,omitempty"`
	Time            *string        `json:"time,omitempty"`
	Brands          []string       `json:"brands,omitempty"`
	Issues          []string       `json:"issues,omitempty"`
	Status          *BookingStatus `json:"status,omitempty"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentIntentID *string        `json:"paymentIntentId,omitempty"`
	TipAmount       *float64       `json:"tipAmount,omitempty"`
	PushToken       *string        `json:"-"`
}

// Booking represents a persisted booking record.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	ServiceID       string        `bson:"service_id" json:"serviceId"`
	ServiceTitle    string        `bson:"service_title" json:"serviceTitle"`
	ServicePrice    float64       `bson:"service_price" json:"servicePrice"`
	ServiceDuration int           `bson:"service_duration" json:"serviceDuration"`
	Customer        CustomerInfo  `bson:"customer" json:"customer"`
	Date            string        `bson:"date" json:"date"`
	Time            string        `bson:"time" json:"time"`
	Brands          []string      `bson:"brands" json:"brands"`
	Issues          []string      `bson:"issues" json:"issues"`
	Status          BookingStatus `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	PaymentIntentID string        `bson:"payment_intent_id,omitempty" json:"paymentIntentId,omitempty"`
	TipAmount       float64       `bson:"tip_amount" json:"tipAmount"`
	TotalAmount     float64       `bson:"total_amount" json:"totalAmount"`
	PushToken       string        `bson:"push_token,omitempty" json:"-"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Appointment returns the scheduled start in loc, or false when date/time are unset or malformed.
func (b Booking) Appointment(loc *time.Location) (time.Time, bool) {
	if b.Date == "" || b.Time == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
