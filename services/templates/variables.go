package templates

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"aircare/models"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

var sampleValues = map[string]string{
	"customerName": "Tan Wei Ming",
	"firstName":    "Wei Ming",
	"serviceTitle": "General Servicing",
	"date":         "2026-11-02",
	"time":         "10:00",
	"address":      "Blk 123 Ang Mo Kio Ave 3",
	"postalCode":   "560123",
	"totalAmount":  "65.00",
	"bookingId":    "BK-2F9A1C",
	"units":        "3",
	"technician":   "Ahmad",
	"supportPhone": "6123 4567",
	"companyName":  "AirCare",
}

var ErrMissingVariables = errors.New("missing template variables")

// ExtractVariables returns the distinct {{name}} placeholders in order of first use.
func ExtractVariables(content string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Rendered is a template with its placeholders substituted.
type Rendered struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// Render substitutes vars into subject and content. Every placeholder must
// have a value.
func Render(t models.NotificationTemplate, vars map[string]string) (Rendered, error) {
	var missing []string
	seen := map[string]bool{}
	replace := func(s string) string {
		return placeholderRe.ReplaceAllStringFunc(s, func(tok string) string {
			name := placeholderRe.FindStringSubmatch(tok)[1]
			if v, ok := vars[name]; ok {
				return v
			}
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return tok
		})
	}

	r := Rendered{Subject: replace(t.Subject), Body: replace(t.Content)}
	if len(missing) > 0 {
		sort.Strings(missing)
		return r, fmt.Errorf("%w: %s", ErrMissingVariables, strings.Join(missing, ", "))
	}
	return r, nil
}

func sampleData(vars []string) map[string]string {
	out := make(map[string]string, len(vars))
	for _, v := range vars {
		if s, ok := sampleValues[v]; ok {
			out[v] = s
		} else {
			out[v] = "[" + v + "]"
		}
	}
	return out
}
