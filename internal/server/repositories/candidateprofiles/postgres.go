// Package candidateprofiles provides a PostgreSQL-backed repository for
// candidate profiles. Industry sets are stored as JSONB.
package candidateprofiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/dbx"
	"github.com/avolkovs/talentdesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.CandidateProfile) (*models.CandidateProfile, error) {
	industries, err := json.Marshal(profile.Industries)
	if err != nil {
		return nil, fmt.Errorf("marshal industries: %w", err)
	}

	query := `
		INSERT INTO candidate_profiles (account_id, full_name, phone, location,
			desired_role, experience_band, skills, education, industries,
			salary_expectation, available_from, visa_status, resume_path,
			portfolio_url, linkedin_url, open_to_work)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		profile.AccountID, profile.FullName, profile.Phone, profile.Location,
		profile.DesiredRole, profile.ExperienceBand, profile.Skills, profile.Education, industries,
		profile.SalaryExpectation, profile.AvailableFrom, profile.VisaStatus, profile.ResumePath,
		profile.PortfolioURL, profile.LinkedInURL, profile.OpenToWork,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) GetByAccountID(ctx context.Context, accountID string) (*models.CandidateProfile, error) {
	query := `
		SELECT id, account_id, full_name, phone, location, desired_role,
			experience_band, skills, education, industries, salary_expectation,
			available_from, visa_status, resume_path, portfolio_url, linkedin_url,
			open_to_work, created_at, updated_at
		FROM candidate_profiles
		WHERE account_id = $1
	`
	p := &models.CandidateProfile{}
	var industries []byte
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&p.ID, &p.AccountID, &p.FullName, &p.Phone, &p.Location, &p.DesiredRole,
		&p.ExperienceBand, &p.Skills, &p.Education, &industries, &p.SalaryExpectation,
		&p.AvailableFrom, &p.VisaStatus, &p.ResumePath, &p.PortfolioURL, &p.LinkedInURL,
		&p.OpenToWork, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(industries, &p.Industries); err != nil {
		return nil, fmt.Errorf("unmarshal industries: %w", err)
	}

	return p, nil
}
