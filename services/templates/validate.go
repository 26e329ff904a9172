package templates

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"aircare/models"
)

// Validate checks content, subject, declared variables and channel limits.
func Validate(t models.NotificationTemplate) models.TemplateValidation {
	v := models.TemplateValidation{Errors: []string{}, Warnings: []string{}}
	v.CharacterCount = utf8.RuneCountInString(t.Content)
	limit := LimitFor(t.Type)

	if strings.TrimSpace(t.Name) == "" {
		v.Errors = append(v.Errors, "Template name is required")
	}
	if strings.TrimSpace(t.Content) == "" {
		v.Errors = append(v.Errors, "Template content is required")
	}
	if t.Type == models.MessageEmail && strings.TrimSpace(t.Subject) == "" {
		v.Errors = append(v.Errors, "Email templates require a subject")
	}
	if _, ok := ChannelLimits[t.Type]; !ok {
		v.Errors = append(v.Errors, fmt.Sprintf("Unsupported message type %q", t.Type))
	}

	switch {
	case v.CharacterCount > limit.Max:
		v.Errors = append(v.Errors, fmt.Sprintf("Content is %d characters, the %s limit is %d", v.CharacterCount, t.Type, limit.Max))
	case v.CharacterCount > limit.Recommended:
		v.Warnings = append(v.Warnings, fmt.Sprintf("Content exceeds the recommended %d characters", limit.Recommended))
	case float64(v.CharacterCount) > 0.9*float64(limit.Max):
		v.Warnings = append(v.Warnings, fmt.Sprintf("Content is close to the %d character limit", limit.Max))
	}

	declared := map[string]bool{}
	for _, name := range t.Variables {
		declared[name] = true
	}
	used := map[string]bool{}
	for _, name := range ExtractVariables(t.Subject + "\n" + t.Content) {
		used[name] = true
		if !declared[name] {
			v.Errors = append(v.Errors, fmt.Sprintf("Undeclared variable {{%s}}", name))
		}
	}
	for _, name := range t.Variables {
		if !used[name] {
			v.Warnings = append(v.Warnings, fmt.Sprintf("Variable %s is declared but never used", name))
		}
	}

	v.IsValid = len(v.Errors) == 0
	return v
}
