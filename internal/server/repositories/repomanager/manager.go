package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovs/talentdesk/internal/dbx"
	"github.com/avolkovs/talentdesk/internal/server/repositories/accounts"
	"github.com/avolkovs/talentdesk/internal/server/repositories/candidateprofiles"
	"github.com/avolkovs/talentdesk/internal/server/repositories/employerprofiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	CandidateProfiles(db dbx.DBTX) candidateprofiles.Repository
	EmployerProfiles(db dbx.DBTX) employerprofiles.Repository
}
