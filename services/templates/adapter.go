// Package templates manages notification templates: the enhanced/legacy
// adapter, variable handling, validation and rendering.
package templates

import (
	"unicode/utf8"

	"aircare/models"
)

// Enhance attaches default validation, analytics and preview data. Blocks a
// template already carries are kept; missing ones are filled in even when the
// enhanced marker is set, so stored records with partial blocks stay usable.
func Enhance(t models.NotificationTemplate) models.NotificationTemplate {
	out := t
	out.Enhanced = true
	if out.Validation == nil {
		out.Validation = &models.TemplateValidation{
			IsValid:        true,
			Errors:         []string{},
			Warnings:       []string{},
			CharacterCount: utf8.RuneCountInString(t.Content),
		}
	}
	if out.Analytics == nil {
		out.Analytics = &models.TemplateAnalytics{}
	}
	if out.Preview == nil {
		limit := LimitFor(t.Type)
		out.Preview = &models.PreviewConfig{
			MaxLength:          limit.Max,
			RecommendedLength:  limit.Recommended,
			ShowCharacterCount: true,
			SampleData:         sampleData(t.Variables),
		}
	}
	return out
}

// ToLegacy strips everything Enhance attached.
func ToLegacy(t models.NotificationTemplate) models.NotificationTemplate {
	out := t
	out.Enhanced = false
	out.Validation = nil
	out.Analytics = nil
	out.Preview = nil
	return out
}

// UpdateValidation merges the non-nil fields of patch into the validation block.
func UpdateValidation(t models.NotificationTemplate, patch models.ValidationPatch) models.NotificationTemplate {
	out := Enhance(t)
	v := *out.Validation
	if patch.IsValid != nil {
		v.IsValid = *patch.IsValid
	}
	if patch.Errors != nil {
		v.Errors = append([]string{}, patch.Errors...)
	}
	if patch.Warnings != nil {
		v.Warnings = append([]string{}, patch.Warnings...)
	}
	if patch.CharacterCount != nil {
		v.CharacterCount = *patch.CharacterCount
	}
	out.Validation = &v
	return out
}

// UpdateAnalytics merges patch into the analytics block; performance is
// merged field by field as well.
func UpdateAnalytics(t models.NotificationTemplate, patch models.AnalyticsPatch) models.NotificationTemplate {
	out := Enhance(t)
	a := *out.Analytics
	if patch.SentCount != nil {
		a.SentCount = *patch.SentCount
	}
	if patch.DeliveredCount != nil {
		a.DeliveredCount = *patch.DeliveredCount
	}
	if patch.FailedCount != nil {
		a.FailedCount = *patch.FailedCount
	}
	if patch.OpenRate != nil {
		a.OpenRate = *patch.OpenRate
	}
	if patch.ClickRate != nil {
		a.ClickRate = *patch.ClickRate
	}
	if p := patch.Performance; p != nil {
		if p.DeliveryRate != nil {
			a.Performance.DeliveryRate = *p.DeliveryRate
		}
		if p.AvgDeliverySeconds != nil {
			a.Performance.AvgDeliverySeconds = *p.AvgDeliverySeconds
		}
		if p.EngagementScore != nil {
			a.Performance.EngagementScore = *p.EngagementScore
		}
	}
	out.Analytics = &a
	return out
}
