package accountRepo

import (
	"context"
	"errors"

	"aircare/models"
)

var ErrNotFound = errors.New("account not found")

type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Upsert(ctx context.Context, account *models.Account) error
}
