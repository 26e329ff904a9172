package templates

import (
	"testing"
	"time"

	"aircare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyTemplates() []models.NotificationTemplate {
	return []models.NotificationTemplate{
		{},
		{ID: "t1", Name: "welcome", Type: models.MessageSMS, Content: "Hi {{firstName}}", Variables: []string{"firstName"}, IsActive: true},
		{ID: "t2", Name: "promo", Type: models.MessageEmail, Subject: "Deals", Content: "Body", UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), UpdatedBy: "ops"},
		{ID: "t3", Name: "push", Type: models.MessageType("fax"), Content: "x"},
	}
}

func TestEnhanceRoundTrip(t *testing.T) {
	for _, tmpl := range legacyTemplates() {
		assert.Equal(t, tmpl, ToLegacy(Enhance(tmpl)))
	}
}

func TestEnhanceIsIdempotent(t *testing.T) {
	for _, tmpl := range legacyTemplates() {
		once := Enhance(tmpl)
		assert.Equal(t, once, Enhance(once))
	}
}

func TestEnhanceDefaults(t *testing.T) {
	e := Enhance(models.NotificationTemplate{Type: models.MessageEmail, Content: "Hello {{customerName}}", Variables: []string{"customerName", "custom"}})

	require.True(t, e.Enhanced)
	assert.Equal(t, &models.TemplateValidation{IsValid: true, Errors: []string{}, Warnings: []string{}, CharacterCount: 22}, e.Validation)
	assert.Equal(t, &models.TemplateAnalytics{}, e.Analytics)
	assert.Equal(t, 10000, e.Preview.MaxLength)
	assert.Equal(t, 5000, e.Preview.RecommendedLength)
	assert.Equal(t, "Tan Wei Ming", e.Preview.SampleData["customerName"])
	assert.Equal(t, "[custom]", e.Preview.SampleData["custom"])

	sms := Enhance(models.NotificationTemplate{Type: models.MessageSMS})
	assert.Equal(t, 160, sms.Preview.MaxLength)
}

func TestUpdateValidationMergesShallow(t *testing.T) {
	e := Enhance(models.NotificationTemplate{Content: "abc"})
	valid := false
	out := UpdateValidation(e, models.ValidationPatch{IsValid: &valid, Errors: []string{"bad"}})

	assert.False(t, out.Validation.IsValid)
	assert.Equal(t, []string{"bad"}, out.Validation.Errors)
	assert.Equal(t, []string{}, out.Validation.Warnings)
	assert.Equal(t, 3, out.Validation.CharacterCount)
	assert.True(t, e.Validation.IsValid, "input must not be mutated")
}

func TestUpdateAnalyticsMergesPerformance(t *testing.T) {
	e := Enhance(models.NotificationTemplate{})
	rate, score, sent := 0.9, 4.5, int64(10)
	e = UpdateAnalytics(e, models.AnalyticsPatch{Performance: &models.PerformancePatch{DeliveryRate: &rate}})
	e = UpdateAnalytics(e, models.AnalyticsPatch{SentCount: &sent, Performance: &models.PerformancePatch{EngagementScore: &score}})

	assert.Equal(t, int64(10), e.Analytics.SentCount)
	assert.Equal(t, 0.9, e.Analytics.Performance.DeliveryRate)
	assert.Equal(t, 4.5, e.Analytics.Performance.EngagementScore)
}

func TestUpdateOnLegacyEnhancesFirst(t *testing.T) {
	opens := 0.25
	out := UpdateAnalytics(models.NotificationTemplate{Type: models.MessagePush}, models.AnalyticsPatch{OpenRate: &opens})
	require.True(t, out.Enhanced)
	assert.Equal(t, 0.25, out.Analytics.OpenRate)
	assert.Equal(t, 1000, out.Preview.MaxLength)
}

func TestUpdatesOnEnhancedTemplateWithMissingBlocks(t *testing.T) {
	partial := models.NotificationTemplate{ID: "t9", Type: models.MessageSMS, Content: "Hi", Enhanced: true}

	sent := int64(4)
	out := UpdateAnalytics(partial, models.AnalyticsPatch{SentCount: &sent})
	require.NotNil(t, out.Analytics)
	assert.Equal(t, int64(4), out.Analytics.SentCount)
	require.NotNil(t, out.Validation)
	assert.Equal(t, 2, out.Validation.CharacterCount)

	valid := false
	out = UpdateValidation(partial, models.ValidationPatch{IsValid: &valid})
	require.NotNil(t, out.Validation)
	assert.False(t, out.Validation.IsValid)
	require.NotNil(t, out.Preview)
	assert.Equal(t, LimitFor(models.MessageSMS).Max, out.Preview.MaxLength)
}

func TestEnhanceKeepsExistingBlocks(t *testing.T) {
	kept := &models.TemplateAnalytics{SentCount: 9}
	out := Enhance(models.NotificationTemplate{Content: "x", Enhanced: true, Analytics: kept})
	assert.Same(t, kept, out.Analytics)
	assert.NotNil(t, out.Validation)
}
