package models

// ReminderPayload is the asynq payload of an appointment reminder. Message
// bodies are rendered when the reminder is scheduled.
type ReminderPayload struct {
	BookingID    string `json:"bookingId"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	PushToken    string `json:"pushToken,omitempty"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	SMSBody      string `json:"smsBody,omitempty"`
	EmailSubject string `json:"emailSubject,omitempty"`
	EmailBody    string `json:"emailBody,omitempty"`
	FireDate     string `json:"fireDate"` // RFC3339
}
