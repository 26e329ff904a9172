package templateRepo

import (
	"context"
	"errors"

	"aircare/models"
)

var ErrNotFound = errors.New("template not found")

type TemplateRepository interface {
	List(ctx context.Context) ([]models.NotificationTemplate, error)
	GetByID(ctx context.Context, id string) (*models.NotificationTemplate, error)
	Upsert(ctx context.Context, tmpl *models.NotificationTemplate) error
}
