package catalogueRepo

import (
	"context"
	"errors"

	"aircare/models"
)

var ErrNotFound = errors.New("service not found")

type CatalogueRepository interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
}
