package employerprofiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_MarshalsIndustries(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	year := 1998

	mock.ExpectQuery(`INSERT INTO employer_profiles`).
		WithArgs("acc-1", "Acme Logistics", "", "", "uploads/logo/acme.png", "51-200",
			&year, []byte(`["logistics"]`), "", "", "", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("prof-1", now, now))

	p, err := repo.Create(context.Background(), &models.EmployerProfile{
		AccountID:   "acc-1",
		CompanyName: "Acme Logistics",
		LogoPath:    "uploads/logo/acme.png",
		SizeBand:    "51-200",
		FoundedYear: &year,
		Industries:  []string{"logistics"},
	})
	require.NoError(t, err)
	assert.Equal(t, "prof-1", p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByAccountID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	cols := []string{"id", "account_id", "company_name", "description", "website",
		"logo_path", "size_band", "founded_year", "industries", "location",
		"contact_email", "contact_phone", "verified", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT .+ FROM employer_profiles WHERE account_id`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("prof-1", "acc-1", "Acme Logistics", "", "", "", "51-200", 1998,
				[]byte(`["logistics"]`), "", "", "", false, now, now))

	p, err := repo.GetByAccountID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", p.ID)
	assert.Equal(t, []string{"logistics"}, p.Industries)
	require.NotNil(t, p.FoundedYear)
	assert.Equal(t, 1998, *p.FoundedYear)
	assert.False(t, p.Verified)
}

func TestGetByAccountID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM employer_profiles WHERE account_id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByAccountID(context.Background(), "missing")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
