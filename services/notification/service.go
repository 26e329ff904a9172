// Package notification tells customers about their bookings once payment
// has gone through.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aircare/models"
	"aircare/services/otp"
	"aircare/services/templates"
	"aircare/utils"

	"go.uber.org/zap"
)

// NotificationService sends booking confirmations and appointment reminders.
type NotificationService interface {
	BookingConfirmed(ctx context.Context, b models.Booking)
	SendReminder(ctx context.Context, p models.ReminderPayload) error
}

// TemplateSource resolves the template of a channel and records its delivery.
type TemplateSource interface {
	Resolve(ctx context.Context, name string, typ models.MessageType) (models.NotificationTemplate, error)
	RecordDelivery(id string, delivered bool)
}

// DefaultNotificationService fans a confirmation out over every configured
// channel. Nil senders disable their channel.
type DefaultNotificationService struct {
	Templates TemplateSource
	SMS       otp.SMSSender
	Email     EmailSender
	Push      PushSender
	Reminders ReminderScheduler
	LeadTime  time.Duration
	Clock     utils.Clock
	Logger    *zap.Logger
}

func NewDefaultNotificationService(tmpl TemplateSource, logger *zap.Logger) (*DefaultNotificationService, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("notification service initialization error: template source is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		Templates: tmpl,
		LeadTime:  24 * time.Hour,
		Clock:     utils.SystemClock(),
		Logger:    logger,
	}, nil
}

// bookingVars are the template variables available for b.
func bookingVars(b models.Booking) map[string]string {
	addr := b.Customer.Address
	parts := []string{addr.BlockStreet}
	if addr.FloorUnit != "" {
		parts = append(parts, addr.FloorUnit)
	}
	if addr.CondoName != "" {
		parts = append(parts, addr.CondoName)
	}
	return map[string]string{
		"firstName":    b.Customer.FirstName,
		"customerName": b.Customer.FullName(),
		"serviceTitle": b.ServiceTitle,
		"date":         b.Date,
		"time":         b.Time,
		"address":      strings.Join(parts, ", "),
		"postalCode":   addr.PostalCode,
		"totalAmount":  fmt.Sprintf("%.2f", b.TotalAmount),
		"bookingId":    b.ID,
		"companyName":  "AirCare",
	}
}

func (s *DefaultNotificationService) render(ctx context.Context, name string, typ models.MessageType, vars map[string]string) (string, templates.Rendered, error) {
	t, err := s.Templates.Resolve(ctx, name, typ)
	if err != nil {
		return "", templates.Rendered{}, err
	}
	r, err := templates.Render(t, vars)
	return t.ID, r, err
}

// deliver renders one channel and hands it to send, recording the outcome.
func (s *DefaultNotificationService) deliver(ctx context.Context, name string, typ models.MessageType, vars map[string]string, send func(templates.Rendered) error) {
	id, msg, err := s.render(ctx, name, typ, vars)
	if err == nil {
		err = send(msg)
	}
	if id != "" {
		s.Templates.RecordDelivery(id, err == nil)
	}
	if err != nil {
		s.Logger.Warn("notification not delivered",
			zap.String("template", name), zap.String("channel", string(typ)),
			zap.String("bookingId", vars["bookingId"]), zap.Error(err))
	}
}

// BookingConfirmed notifies the customer of a paid booking and schedules the
// appointment reminder. Failures are logged only.
func (s *DefaultNotificationService) BookingConfirmed(ctx context.Context, b models.Booking) {
	vars := bookingVars(b)
	name := templates.BookingConfirmation

	if s.SMS != nil && b.Customer.Phone != "" {
		s.deliver(ctx, name, models.MessageSMS, vars, func(m templates.Rendered) error {
			return s.SMS.Send(ctx, "+65"+b.Customer.Phone, m.Body)
		})
	}
	if s.Email != nil && b.Customer.Email != "" {
		s.deliver(ctx, name, models.MessageEmail, vars, func(m templates.Rendered) error {
			return s.Email.Send(ctx, EmailMessage{To: b.Customer.Email, ToName: b.Customer.FullName(), Subject: m.Subject, Body: m.Body})
		})
	}
	if s.Push != nil && b.PushToken != "" {
		s.deliver(ctx, name, models.MessagePush, vars, func(m templates.Rendered) error {
			return s.Push.Send(ctx, b.PushToken, m.Subject, m.Body, map[string]string{"type": "booking_confirmed", "bookingId": b.ID})
		})
	}

	if err := s.scheduleReminder(ctx, b, vars); err != nil {
		s.Logger.Warn("appointment reminder not scheduled", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func (s *DefaultNotificationService) scheduleReminder(ctx context.Context, b models.Booking, vars map[string]string) error {
	if s.Reminders == nil {
		return nil
	}
	appt, ok := b.Appointment(utils.Singapore)
	if !ok {
		return fmt.Errorf("booking has no appointment time")
	}
	fireAt := appt.Add(-s.LeadTime)
	if !fireAt.After(s.Clock.Now()) {
		s.Logger.Info("appointment too close for a reminder", zap.String("bookingId", b.ID))
		return nil
	}

	p := models.ReminderPayload{
		BookingID: b.ID,
		Phone:     b.Customer.Phone,
		Email:     b.Customer.Email,
		Name:      b.Customer.FullName(),
		PushToken: b.PushToken,
		FireDate:  fireAt.Format(time.RFC3339),
	}
	if _, m, err := s.render(ctx, templates.AppointmentReminder, models.MessagePush, vars); err == nil {
		p.Title, p.Body = m.Subject, m.Body
	}
	if _, m, err := s.render(ctx, templates.AppointmentReminder, models.MessageSMS, vars); err == nil {
		p.SMSBody = m.Body
	}
	if _, m, err := s.render(ctx, templates.AppointmentReminder, models.MessageEmail, vars); err == nil {
		p.EmailSubject, p.EmailBody = m.Subject, m.Body
	}
	if err := s.Reminders.ScheduleReminder(ctx, p, fireAt); err != nil {
		return err
	}
	s.Logger.Info("appointment reminder scheduled", zap.String("bookingId", b.ID), zap.Time("fireAt", fireAt))
	return nil
}

// SendReminder delivers a queued reminder on every channel it carries. It
// fails only when no channel succeeded, so the queue retries.
func (s *DefaultNotificationService) SendReminder(ctx context.Context, p models.ReminderPayload) error {
	var errs []string
	sent := 0
	try := func(channel string, err error) {
		if err != nil {
			errs = append(errs, channel+": "+err.Error())
			return
		}
		sent++
	}

	if s.Push != nil && p.PushToken != "" && p.Body != "" {
		try("push", s.Push.Send(ctx, p.PushToken, p.Title, p.Body, map[string]string{
			"type": "appointment_reminder", "bookingId": p.BookingID, "fireDate": p.FireDate,
		}))
	}
	if s.SMS != nil && p.Phone != "" && p.SMSBody != "" {
		try("sms", s.SMS.Send(ctx, "+65"+p.Phone, p.SMSBody))
	}
	if s.Email != nil && p.Email != "" && p.EmailBody != "" {
		try("email", s.Email.Send(ctx, EmailMessage{To: p.Email, ToName: p.Name, Subject: p.EmailSubject, Body: p.EmailBody}))
	}

	if sent == 0 && len(errs) > 0 {
		return fmt.Errorf("reminder for booking %s not delivered: %s", p.BookingID, strings.Join(errs, "; "))
	}
	if len(errs) > 0 {
		s.Logger.Warn("reminder partially delivered", zap.String("bookingId", p.BookingID), zap.Strings("errors", errs))
	}
	return nil
}
