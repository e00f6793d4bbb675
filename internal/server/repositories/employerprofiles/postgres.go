// Package employerprofiles provides a PostgreSQL-backed repository for
// employer profiles. Industry sets are stored as JSONB.
package employerprofiles

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

func (r *PostgresRepository) Create(ctx context.Context, profile *models.EmployerProfile) (*models.EmployerProfile, error) {
	industries, err := json.Marshal(profile.Industries)
	if err != nil {
		return nil, fmt.Errorf("marshal industries: %w", err)
	}

	query := `
		INSERT INTO employer_profiles (account_id, company_name, description,
			website, logo_path, size_band, founded_year, industries, location,
			contact_email, contact_phone, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		profile.AccountID, profile.CompanyName, profile.Description,
		profile.Website, profile.LogoPath, profile.SizeBand, profile.FoundedYear, industries,
		profile.Location, profile.ContactEmail, profile.ContactPhone, profile.Verified,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) GetByAccountID(ctx context.Context, accountID string) (*models.EmployerProfile, error) {
	query := `
		SELECT id, account_id, company_name, description, website, logo_path,
			size_band, founded_year, industries, location, contact_email,
			contact_phone, verified, created_at, updated_at
		FROM employer_profiles
		WHERE account_id = $1
	`
	p := &models.EmployerProfile{}
	var industries []byte
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&p.ID, &p.AccountID, &p.CompanyName, &p.Description, &p.Website, &p.LogoPath,
		&p.SizeBand, &p.FoundedYear, &industries, &p.Location, &p.ContactEmail,
		&p.ContactPhone, &p.Verified, &p.CreatedAt, &p.UpdatedAt,
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
