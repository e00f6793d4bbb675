// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovs/talentdesk/internal/dbx"
	"github.com/avolkovs/talentdesk/internal/server/migrations"
	"github.com/avolkovs/talentdesk/internal/server/repositories/accounts"
	"github.com/avolkovs/talentdesk/internal/server/repositories/candidateprofiles"
	"github.com/avolkovs/talentdesk/internal/server/repositories/employerprofiles"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// CandidateProfiles returns a candidateprofiles.Repository bound to the
// provided DBTX.
func (m *PostgresRepositoryManager) CandidateProfiles(db dbx.DBTX) candidateprofiles.Repository {
	return candidateprofiles.NewPostgresRepository(db)
}

// EmployerProfiles returns an employerprofiles.Repository bound to the
// provided DBTX.
func (m *PostgresRepositoryManager) EmployerProfiles(db dbx.DBTX) employerprofiles.Repository {
	return employerprofiles.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
