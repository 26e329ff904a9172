package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	templateRepo "aircare/database/repository/template"
	"aircare/models"
	"aircare/utils"

	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("template not found")
	ErrInactive = errors.New("template is inactive")
)

// InvalidTemplateError carries the validation result of a rejected save.
type InvalidTemplateError struct {
	Validation models.TemplateValidation
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("template is invalid: %v", e.Validation.Errors)
}

type TemplateService interface {
	List(ctx context.Context) ([]models.NotificationTemplate, error)
	Get(ctx context.Context, id string) (models.NotificationTemplate, error)
	Save(ctx context.Context, t models.NotificationTemplate, updatedBy string) (models.NotificationTemplate, error)
	Resolve(ctx context.Context, name string, typ models.MessageType) (models.NotificationTemplate, error)
	RecordDelivery(id string, delivered bool)
}

// DefaultTemplateService serves stored templates layered over the built-in
// defaults. Delivery analytics are kept in memory.
type DefaultTemplateService struct {
	Repo   templateRepo.TemplateRepository
	Clock  utils.Clock
	Logger *zap.Logger

	mu        sync.Mutex
	analytics map[string]models.NotificationTemplate
}

func NewDefaultTemplateService(repo templateRepo.TemplateRepository, logger *zap.Logger) *DefaultTemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTemplateService{
		Repo:      repo,
		Clock:     utils.SystemClock(),
		Logger:    logger,
		analytics: map[string]models.NotificationTemplate{},
	}
}

// List returns every template, enhanced, ordered by id.
func (s *DefaultTemplateService) List(ctx context.Context) ([]models.NotificationTemplate, error) {
	byID := map[string]models.NotificationTemplate{}
	for _, t := range DefaultTemplates() {
		byID[t.ID] = t
	}
	stored, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	for _, t := range stored {
		byID[t.ID] = t
	}

	out := make([]models.NotificationTemplate, 0, len(byID))
	for _, t := range byID {
		out = append(out, s.decorate(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DefaultTemplateService) Get(ctx context.Context, id string) (models.NotificationTemplate, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err == nil {
		return s.decorate(*t), nil
	}
	if !errors.Is(err, templateRepo.ErrNotFound) {
		return models.NotificationTemplate{}, fmt.Errorf("Get: %w", err)
	}
	for _, d := range DefaultTemplates() {
		if d.ID == id {
			return s.decorate(d), nil
		}
	}
	return models.NotificationTemplate{}, ErrNotFound
}

// Resolve finds the active template for a name and channel.
func (s *DefaultTemplateService) Resolve(ctx context.Context, name string, typ models.MessageType) (models.NotificationTemplate, error) {
	t, err := s.Get(ctx, TemplateID(name, typ))
	if err != nil {
		return models.NotificationTemplate{}, err
	}
	if !t.IsActive {
		return models.NotificationTemplate{}, ErrInactive
	}
	return t, nil
}

// Save validates and stores t. Variables are derived from the content when
// none are declared.
func (s *DefaultTemplateService) Save(ctx context.Context, t models.NotificationTemplate, updatedBy string) (models.NotificationTemplate, error) {
	t = ToLegacy(t)
	if t.ID == "" {
		t.ID = TemplateID(t.Name, t.Type)
	}
	if t.Variables == nil {
		t.Variables = ExtractVariables(t.Subject + "\n" + t.Content)
	}

	v := Validate(t)
	if !v.IsValid {
		return models.NotificationTemplate{}, &InvalidTemplateError{Validation: v}
	}

	t.UpdatedAt = s.Clock.Now()
	t.UpdatedBy = updatedBy
	if err := s.Repo.Upsert(ctx, &t); err != nil {
		return models.NotificationTemplate{}, fmt.Errorf("Save: %w", err)
	}
	s.Logger.Info("notification template saved", zap.String("id", t.ID), zap.String("by", updatedBy))
	return s.decorate(t), nil
}

// RecordDelivery counts one send attempt of template id.
func (s *DefaultTemplateService) RecordDelivery(id string, delivered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := Enhance(s.analytics[id])
	a := *cur.Analytics
	sent := a.SentCount + 1
	patch := models.AnalyticsPatch{SentCount: &sent}
	if delivered {
		n := a.DeliveredCount + 1
		patch.DeliveredCount = &n
	} else {
		n := a.FailedCount + 1
		patch.FailedCount = &n
	}
	next := UpdateAnalytics(cur, patch)
	rate := float64(next.Analytics.DeliveredCount) / float64(next.Analytics.SentCount)
	s.analytics[id] = UpdateAnalytics(next, models.AnalyticsPatch{
		Performance: &models.PerformancePatch{DeliveryRate: &rate},
	})
}

// decorate enhances t, refreshes its validation and attaches recorded analytics.
func (s *DefaultTemplateService) decorate(t models.NotificationTemplate) models.NotificationTemplate {
	v := Validate(t)
	out := UpdateValidation(Enhance(ToLegacy(t)), models.ValidationPatch{
		IsValid:        &v.IsValid,
		Errors:         v.Errors,
		Warnings:       v.Warnings,
		CharacterCount: &v.CharacterCount,
	})

	s.mu.Lock()
	rec, ok := s.analytics[t.ID]
	s.mu.Unlock()
	if ok && rec.Analytics != nil {
		a := *rec.Analytics
		out.Analytics = &a
	}
	return out
}
