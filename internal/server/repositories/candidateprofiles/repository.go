package candidateprofiles

import (
	"context"

	"github.com/avolkovs/talentdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.CandidateProfile) (*models.CandidateProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*models.CandidateProfile, error)
}
