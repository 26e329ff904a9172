package templates

import "aircare/models"

const (
	BookingConfirmation = "booking_confirmation"
	AppointmentReminder = "appointment_reminder"
)

// TemplateID is the storage id of a named template on one channel.
func TemplateID(name string, typ models.MessageType) string {
	return name + "_" + string(typ)
}

func builtin(name string, typ models.MessageType, subject, content string) models.NotificationTemplate {
	return models.NotificationTemplate{
		ID:        TemplateID(name, typ),
		Name:      name,
		Type:      typ,
		Subject:   subject,
		Content:   content,
		Variables: ExtractVariables(subject + "\n" + content),
		IsActive:  true,
		UpdatedBy: "system",
	}
}

// DefaultTemplates are served until an admin saves an override with the same id.
func DefaultTemplates() []models.NotificationTemplate {
	return []models.NotificationTemplate{
		builtin(BookingConfirmation, models.MessageSMS, "",
			"Hi {{firstName}}, your {{serviceTitle}} is confirmed for {{date}} at {{time}}. Ref {{bookingId}}."),
		builtin(BookingConfirmation, models.MessagePush, "Booking confirmed",
			"Your {{serviceTitle}} on {{date}} at {{time}} is confirmed. See you soon!"),
		builtin(BookingConfirmation, models.MessageEmail, "Your {{serviceTitle}} booking is confirmed",
			"Hi {{customerName}},\n\n"+
				"Thank you for booking with us. Here are your appointment details:\n\n"+
				"Service: {{serviceTitle}}\n"+
				"Date: {{date}}\n"+
				"Time: {{time}}\n"+
				"Address: {{address}}, Singapore {{postalCode}}\n"+
				"Amount paid: SGD {{totalAmount}}\n"+
				"Booking reference: {{bookingId}}\n\n"+
				"Our technician will contact you before arriving."),
		builtin(AppointmentReminder, models.MessageSMS, "",
			"Reminder: your {{serviceTitle}} is on {{date}} at {{time}}. Ref {{bookingId}}."),
		builtin(AppointmentReminder, models.MessagePush, "Upcoming appointment",
			"Your {{serviceTitle}} is scheduled for {{date}} at {{time}}."),
		builtin(AppointmentReminder, models.MessageEmail, "Reminder: {{serviceTitle}} on {{date}}",
			"Hi {{customerName}},\n\nThis is a reminder that your {{serviceTitle}} is scheduled for {{date}} at {{time}} at {{address}}.\n\nBooking reference: {{bookingId}}"),
	}
}
