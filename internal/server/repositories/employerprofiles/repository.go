package employerprofiles

import (
	"context"

	"github.com/avolkovs/talentdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.EmployerProfile) (*models.EmployerProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*models.EmployerProfile, error)
}
