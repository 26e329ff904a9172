// Package validation holds the pure field rules of the customer form.
package validation

import (
	"regexp"
	"strings"

	"aircare/models"
)

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	postalPattern = regexp.MustCompile(`^[0-9]{6}$`)
)

const mobileDigits = 8

// RequiredFields lists the fields whose validity gates form submission.
var RequiredFields = []string{
	models.FieldFirstName,
	models.FieldLastName,
	models.FieldEmail,
	models.FieldMobile,
	models.FieldAddress,
	models.FieldPostalCode,
}

// IsRequired reports whether field gates submission.
func IsRequired(field string) bool {
	for _, f := range RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate maps a field name and raw value to a ValidationState. It never
// fails; unknown fields are treated as optional.
func Validate(field, raw string) models.ValidationState {
	msg := check(field, raw)
	return models.ValidationState{Touched: true, Valid: msg == "", Error: msg}
}

func check(field, raw string) string {
	switch field {
	case models.FieldFirstName:
		return checkName(raw, "First name")
	case models.FieldLastName:
		return checkName(raw, "Last name")
	case models.FieldEmail:
		if strings.TrimSpace(raw) == "" {
			return "Email is required"
		}
		if !emailPattern.MatchString(raw) {
			return "Please enter a valid email address"
		}
	case models.FieldMobile:
		digits := DigitsOnly(raw)
		if digits == "" {
			return "Mobile number is required"
		}
		if !validMobile(digits) {
			return "Please enter a valid Singapore mobile number (8 digits starting with 8 or 9)"
		}
	case models.FieldPostalCode:
		if raw == "" {
			return "Postal code is required"
		}
		if !postalPattern.MatchString(raw) {
			return "Postal code must be 6 digits"
		}
	case models.FieldAddress:
		if strings.TrimSpace(raw) == "" {
			return "Address is required"
		}
	}
	return ""
}

func checkName(raw, label string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return label + " is required"
	}
	if len([]rune(trimmed)) < 2 {
		return label + " must be at least 2 characters"
	}
	return ""
}

func validMobile(digits string) bool {
	return len(digits) == mobileDigits && (digits[0] == '8' || digits[0] == '9')
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// SanitizeMobile keeps at most the first 8 digits of raw.
func SanitizeMobile(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > mobileDigits {
		digits = digits[:mobileDigits]
	}
	return digits
}

// FormatMobile renders a mobile number as "XXXX XXXX", capped at 8 digits.
func FormatMobile(raw string) string {
	digits := SanitizeMobile(raw)
	if len(digits) <= 4 {
		return digits
	}
	return digits[:4] + " " + digits[4:]
}
