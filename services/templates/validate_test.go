package templates

import (
	"strings"
	"testing"

	"aircare/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("Hi {{ firstName }}, {{date}} at {{time}}. Bye {{firstName}} {{ bad-name }}")
	assert.Equal(t, []string{"firstName", "date", "time"}, got)
	assert.Equal(t, []string{}, ExtractVariables("no placeholders"))
}

func TestRender(t *testing.T) {
	tmpl := models.NotificationTemplate{Subject: "About {{date}}", Content: "Hi {{name}}, see you {{date}}"}

	r, err := Render(tmpl, map[string]string{"name": "Wei", "date": "Monday"})
	assert.NoError(t, err)
	assert.Equal(t, Rendered{Subject: "About Monday", Body: "Hi Wei, see you Monday"}, r)

	r, err = Render(tmpl, map[string]string{"name": "Wei"})
	assert.ErrorIs(t, err, ErrMissingVariables)
	assert.Contains(t, err.Error(), "date")
	assert.Equal(t, "Hi Wei, see you {{date}}", r.Body)
}

func TestValidate(t *testing.T) {
	ok := Validate(models.NotificationTemplate{Name: "n", Type: models.MessageSMS, Content: "Hi {{a}}", Variables: []string{"a"}})
	assert.True(t, ok.IsValid)
	assert.Empty(t, ok.Warnings)

	v := Validate(models.NotificationTemplate{Name: "n", Type: models.MessageSMS, Content: "Hi {{a}} {{b}}", Variables: []string{"a", "c"}})
	assert.False(t, v.IsValid)
	assert.Equal(t, []string{"Undeclared variable {{b}}"}, v.Errors)
	assert.Equal(t, []string{"Variable c is declared but never used"}, v.Warnings)

	long := Validate(models.NotificationTemplate{Name: "n", Type: models.MessageSMS, Content: strings.Repeat("x", 161)})
	assert.False(t, long.IsValid)
	assert.Equal(t, 161, long.CharacterCount)

	email := Validate(models.NotificationTemplate{Name: "n", Type: models.MessageEmail, Content: "body"})
	assert.Contains(t, email.Errors, "Email templates require a subject")

	push := Validate(models.NotificationTemplate{Name: "n", Type: models.MessagePush, Content: strings.Repeat("x", 600)})
	assert.True(t, push.IsValid)
	assert.Len(t, push.Warnings, 1)

	empty := Validate(models.NotificationTemplate{Type: models.MessageType("fax")})
	assert.Len(t, empty.Errors, 3)
}

func TestDefaultTemplatesAreValid(t *testing.T) {
	for _, d := range DefaultTemplates() {
		v := Validate(d)
		assert.True(t, v.IsValid, "%s: %v", d.ID, v.Errors)
	}
}
