package models

import "time"

// MessageType is the delivery channel of a notification template.
type MessageType string

const (
	MessageSMS      MessageType = "sms"
	MessagePush     MessageType = "push"
	MessageWhatsApp MessageType = "whatsapp"
	MessageEmail    MessageType = "email"
)

// NotificationTemplate is a message template. The Enhanced marker and the
// three sub-structures are only present on enhanced templates.
type NotificationTemplate struct {
	ID        string      `bson:"id" json:"id"`
	Name      string      `bson:"name" json:"name"`
	Type      MessageType `bson:"type" json:"type"`
	Subject   string      `bson:"subject,omitempty" json:"subject,omitempty"`
	Content   string      `bson:"content" json:"content"`
	Variables []string    `bson:"variables" json:"variables"`
	IsActive  bool        `bson:"is_active" json:"isActive"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updatedAt"`
	UpdatedBy string      `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`

	Enhanced   bool                `bson:"-" json:"isEnhanced,omitempty"`
	Validation *TemplateValidation `bson:"-" json:"validation,omitempty"`
	Analytics  *TemplateAnalytics  `bson:"-" json:"analytics,omitempty"`
	Preview    *PreviewConfig      `bson:"-" json:"preview,omitempty"`
}

type TemplateValidation struct {
	IsValid        bool     `json:"isValid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	CharacterCount int      `json:"characterCount"`
}

type ValidationPatch struct {
	IsValid        *bool    `json:"isValid,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	CharacterCount *int     `json:"characterCount,omitempty"`
}

type TemplatePerformance struct {
	DeliveryRate       float64 `json:"deliveryRate"`
	AvgDeliverySeconds float64 `json:"avgDeliverySeconds"`
	EngagementScore    float64 `json:"engagementScore"`
}

type TemplateAnalytics struct {
	SentCount      int64               `json:"sentCount"`
	DeliveredCount int64               `json:"deliveredCount"`
	FailedCount    int64               `json:"failedCount"`
	OpenRate       float64             `json:"openRate"`
	ClickRate      float64             `json:"clickRate"`
	Performance    TemplatePerformance `json:"performance"`
}

type PerformancePatch struct {
	DeliveryRate       *float64 `json:"deliveryRate,omitempty"`
	AvgDeliverySeconds *float64 `json:"avgDeliverySeconds,omitempty"`
	EngagementScore    *float64 `json:"engagementScore,omitempty"`
}

type AnalyticsPatch struct {
	SentCount      *int64            `json:"sentCount,omitempty"`
	DeliveredCount *int64            `json:"deliveredCount,omitempty"`
	FailedCount    *int64            `json:"failedCount,omitempty"`
	OpenRate       *float64          `json:"openRate,omitempty"`
	ClickRate      *float64          `json:"clickRate,omitempty"`
	Performance    *PerformancePatch `json:"performance,omitempty"`
}

// PreviewConfig sizes the editor preview for a channel.
type PreviewConfig struct {
	MaxLength          int               `json:"maxLength"`
	RecommendedLength  int               `json:"recommendedLength"`
	ShowCharacterCount bool              `json:"showCharacterCount"`
	SampleData         map[string]string `json:"sampleData"`
}
