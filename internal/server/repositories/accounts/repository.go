package accounts

import (
	"context"

	"github.com/avolkovs/talentdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error)
	UpdateRefreshToken(ctx context.Context, id string, token string) error
	Delete(ctx context.Context, id string) error
}
